package cache

import (
	"container/list"
	"sync"
)

// LRU is a mutex-guarded, capacity-bounded least-recently-used cache.
// Capacity values <= 0 are normalised to 1.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List // front = most-recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

// GetOrCreate returns the cached value for key, calling create on a miss.
// Errors from create are returned without caching anything.
func (c *LRU[K, V]) GetOrCreate(key K, create func() (V, error)) (V, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.getLocked(key); ok {
		return v, true, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.putLocked(key, v)
	return v, false, nil
}

// Len returns the current number of items.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRU[K, V]) getLocked(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry[K, V]).value, true
}

func (c *LRU[K, V]) putLocked(key K, value V) {
	if c.order.Len() >= c.capacity {
		if back := c.order.Back(); back != nil {
			c.order.Remove(back)
			delete(c.items, back.Value.(*entry[K, V]).key)
		}
	}
	c.items[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
}
