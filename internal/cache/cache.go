package cache

// LRU maps keys to values and evicts the least recently used entry once
// capacity is exceeded.
type LRU[K comparable, V any] struct {
	capacity int
	entries  map[K]*lruNode[K, V]
	order    lruList[K, V]
	onEvict  func(K, V)
}

// New creates an LRU holding at most capacity entries. A capacity below 1
// is treated as 1. onEvict, if not nil, receives every entry that leaves
// the cache through eviction, Remove, Put replacement or Purge.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: max(capacity, 1),
		entries:  make(map[K]*lruNode[K, V], capacity),
		onEvict:  onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	node, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(node)
	return node.value, true
}

// Put stores value under key. A previous value for key is evicted.
func (c *LRU[K, V]) Put(key K, value V) {
	if node, ok := c.entries[key]; ok {
		old := node.value
		node.value = value
		c.order.MoveToFront(node)
		c.evicted(key, old)
		return
	}

	c.entries[key] = c.order.PushFront(key, value)
	for c.order.len > c.capacity {
		oldest := c.order.Oldest()
		c.order.Remove(oldest)
		delete(c.entries, oldest.key)
		c.evicted(oldest.key, oldest.value)
	}
}

// Remove evicts key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	node, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(node)
	delete(c.entries, key)
	c.evicted(key, node.value)
	return true
}

// Purge evicts every entry, least recently used first.
func (c *LRU[K, V]) Purge() {
	for node := c.order.Oldest(); node != nil; node = c.order.Oldest() {
		c.order.Remove(node)
		delete(c.entries, node.key)
		c.evicted(node.key, node.value)
	}
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	return c.order.len
}

// Capacity returns the maximum number of entries.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

func (c *LRU[K, V]) evicted(key K, value V) {
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}
