// Package budget accounts texture memory against a fixed budget.
//
// Sizes come from texture.Shape.EstimatedSizeInBytes, so the budget sees
// exactly what a backend allocates. When a reservation does not fit, the
// least recently used textures are evicted through their callbacks.
package budget

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/gogpu/texture"
)

var (
	// ErrBudgetExceeded is returned when a reservation cannot fit, even
	// after evicting every other texture.
	ErrBudgetExceeded = errors.New("budget: memory budget exceeded")

	// ErrClosed is returned when operating on a closed manager.
	ErrClosed = errors.New("budget: manager closed")

	// ErrDuplicate is returned when an ID is reserved twice.
	ErrDuplicate = errors.New("budget: texture already tracked")
)

// DefaultBudget is used when Config.Bytes is zero (256 MiB).
const DefaultBudget = 256 << 20

// Config configures a Manager.
type Config struct {
	// Bytes is the budget. Defaults to DefaultBudget when zero.
	Bytes uint64

	// WarnFraction logs a warning when usage crosses this fraction of the
	// budget. Zero disables the warning.
	WarnFraction float64
}

// Stats is a snapshot of the manager state.
type Stats struct {
	BudgetBytes    uint64
	UsedBytes      uint64
	AvailableBytes uint64
	TextureCount   int
	EvictionCount  uint64
	// Utilization is UsedBytes / BudgetBytes.
	Utilization float64
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("Budget[%.1f%% used, %d/%d bytes, %d textures, %d evictions]",
		s.Utilization*100, s.UsedBytes, s.BudgetBytes, s.TextureCount, s.EvictionCount)
}

type entry struct {
	id      uuid.UUID
	label   string
	size    uint64
	onEvict func()
	element *list.Element
}

// Manager tracks reserved texture memory with LRU eviction.
//
// Manager is safe for concurrent use. Eviction callbacks run after the
// manager lock is released, so they may call Release.
type Manager struct {
	mu sync.Mutex

	budget      uint64
	used        uint64
	warnFrac    float64
	warnAt      uint64
	entries     map[uuid.UUID]*entry
	lru         *list.List // front = most recently used
	evictions   uint64
	closed      bool
	warnedAbove bool
}

// New creates a manager.
func New(cfg Config) *Manager {
	m := &Manager{
		entries: make(map[uuid.UUID]*entry),
		lru:     list.New(),
	}
	if cfg.WarnFraction > 0 && cfg.WarnFraction < 1 {
		m.warnFrac = cfg.WarnFraction
	}
	m.setBudgetLocked(cfg.Bytes)
	return m
}

func (m *Manager) setBudgetLocked(bytes uint64) {
	if bytes == 0 {
		bytes = DefaultBudget
	}
	m.budget = bytes
	m.warnAt = uint64(float64(bytes) * m.warnFrac)
}

// Reserve accounts the memory of shape under id. onEvict, if not nil, is
// called when the texture is evicted to make room for another; the
// reservation is already gone by then.
func (m *Manager) Reserve(id uuid.UUID, shape texture.Shape, onEvict func()) error {
	size := uint64(shape.EstimatedSizeInBytes())

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if _, ok := m.entries[id]; ok {
		m.mu.Unlock()
		return errors.Wrapf(ErrDuplicate, "texture %s", id)
	}
	if size > m.budget {
		m.mu.Unlock()
		return errors.Wrapf(ErrBudgetExceeded, "texture %s needs %d bytes, budget is %d",
			shape, size, m.budget)
	}

	// size fits the budget, so eviction always makes enough room.
	victims := m.evictLocked(size)

	e := &entry{id: id, label: shape.Label(), size: size, onEvict: onEvict}
	e.element = m.lru.PushFront(e)
	m.entries[id] = e
	m.used += size
	warn := m.crossedWarnLocked()
	used, budget := m.used, m.budget
	m.mu.Unlock()

	runEvictions(victims)
	log := texture.Logger()
	log.Debug("budget: reserved", "id", id, "bytes", size, "used", used)
	if warn {
		log.Warn("budget: usage above warning level", "used", used, "budget", budget)
	}
	return nil
}

// evictLocked removes least recently used entries until size more bytes
// fit. It returns the removed entries so their callbacks can run unlocked.
func (m *Manager) evictLocked(size uint64) []*entry {
	var victims []*entry
	for m.used+size > m.budget {
		back := m.lru.Back()
		if back == nil {
			break
		}
		e := back.Value.(*entry)
		m.removeLocked(e)
		m.evictions++
		victims = append(victims, e)
	}
	return victims
}

func (m *Manager) crossedWarnLocked() bool {
	if m.warnAt == 0 {
		return false
	}
	above := m.used >= m.warnAt
	crossed := above && !m.warnedAbove
	m.warnedAbove = above
	return crossed
}

func runEvictions(victims []*entry) {
	for _, e := range victims {
		texture.Logger().Warn("budget: evicted texture", "id", e.id, "label", e.label, "bytes", e.size)
		if e.onEvict != nil {
			e.onEvict()
		}
	}
}

func (m *Manager) removeLocked(e *entry) {
	m.lru.Remove(e.element)
	delete(m.entries, e.id)
	m.used -= e.size
}

// Release returns the memory reserved under id. Unknown IDs are ignored,
// so releasing an evicted texture is safe.
func (m *Manager) Release(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[id]; ok {
		m.removeLocked(e)
		m.crossedWarnLocked()
	}
}

// Touch marks id as recently used.
func (m *Manager) Touch(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[id]; ok {
		m.lru.MoveToFront(e.element)
	}
}

// Contains reports whether id holds a reservation.
func (m *Manager) Contains(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[id]
	return ok
}

// SetBudget changes the budget, evicting textures if usage is now above it.
func (m *Manager) SetBudget(bytes uint64) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.setBudgetLocked(bytes)
	victims := m.evictLocked(0)
	m.mu.Unlock()

	runEvictions(victims)
	return nil
}

// Stats returns current usage.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		BudgetBytes:    m.budget,
		UsedBytes:      m.used,
		AvailableBytes: m.budget - m.used,
		TextureCount:   len(m.entries),
		EvictionCount:  m.evictions,
		Utilization:    float64(m.used) / float64(m.budget),
	}
}

// Close drops every reservation without running eviction callbacks.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[uuid.UUID]*entry)
	m.lru.Init()
	m.used = 0
	m.closed = true
}
