// Package cache provides a small generic LRU for per-geometry state.
//
// Values that own external resources (GPU buffers, bind groups) are handed
// to an eviction callback when they fall out of the cache or are purged:
//
//	c := cache.New[geometry, *resources](2, func(_ geometry, r *resources) {
//		r.destroy(device)
//	})
//	res, ok := c.Get(key)
//
// LRU is not safe for concurrent use; callers hold their own lock.
package cache
