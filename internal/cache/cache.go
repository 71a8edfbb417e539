// Package cache provides a small size-bounded LRU.
package cache

import (
	"container/list"
	"errors"
	"sync"
)

var ErrInvalidSize = errors.New("cache size must be positive")

// LRU evicts the least recently used entry once it holds more than size
// entries. It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	size      int
	evictList *list.List
	items     map[K]*list.Element

	hits   uint64
	misses uint64
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

func New[K comparable, V any](size int) (*LRU[K, V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return &LRU[K, V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[K]*list.Element),
	}, nil
}

func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		c.hits++
		return ele.Value.(*entry[K, V]).value, true
	}
	c.misses++
	return
}

func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		ele.Value.(*entry[K, V]).value = value
		return
	}

	ele := c.evictList.PushFront(&entry[K, V]{key, value})
	c.items[key] = ele

	if c.evictList.Len() > c.size {
		c.removeOldest()
	}
}

func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.items[key]; hit {
		c.removeElement(ele)
		return true
	}
	return false
}

// Purge drops every entry. Hit counters are kept.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictList.Init()
	c.items = make(map[K]*list.Element)
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Ratio returns hits and misses since creation.
func (c *LRU[K, V]) Ratio() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *LRU[K, V]) removeOldest() {
	ele := c.evictList.Back()
	if ele != nil {
		c.removeElement(ele)
	}
}

func (c *LRU[K, V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry[K, V])
	delete(c.items, kv.key)
}
