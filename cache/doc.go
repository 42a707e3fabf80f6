// Package cache memoizes texture range validation.
//
// Uploads to the same texture tend to repeat the same handful of ranges
// (a full level, one layer, a glyph-sized sub-rectangle). Validator keeps
// the verdict of Shape.ValidateRange for recently seen (shape, range) pairs
// in a sharded LRU so repeated uploads skip the bounds walk.
//
//	v := cache.NewValidator(256)
//	if err := v.Validate(shape, r); err != nil {
//		return err
//	}
//
// # ShardedCache[K, V]
//
// The underlying cache is generic. It uses 16 shards to reduce lock
// contention, with LRU eviction per shard and atomic hit/miss counters.
//
//	c := cache.NewSharded[string, int](256, cache.StringHasher)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
//
// # Thread Safety
//
// ShardedCache and Validator are safe for concurrent use.
// Neither should be copied after creation (they contain mutexes).
package cache
