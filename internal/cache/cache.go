// Package cache provides a bounded in-process cache of paper metadata.
package cache

import (
	"container/list"
	"sync"

	"github.com/matsen/paperscope/internal/paper"
)

// DefaultCapacity is the cache capacity used when none is configured.
const DefaultCapacity = 1024

type entry struct {
	id    string
	paper paper.Paper
}

// PaperCache is a fixed-capacity LRU cache of paper metadata, keyed by
// paper ID. It is safe for concurrent use; one mutex guards the whole
// structure since every operation is O(1) and short-lived.
//
// Entries are a subset of what the metadata store holds; absence never
// means the ID does not exist in the store.
type PaperCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	lru      *list.List
}

// New creates a cache holding at most capacity papers. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *PaperCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &PaperCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached paper for id, if present.
func (c *PaperCache) Get(id string) (paper.Paper, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[id]
	if !ok {
		return paper.Paper{}, false
	}

	c.lru.MoveToFront(elem)
	return elem.Value.(*entry).paper, true
}

// Put stores the paper under its ID, evicting the least recently used
// entry when the cache is full. Storing an existing ID replaces its value.
func (c *PaperCache) Put(id string, p paper.Paper) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[id]; ok {
		elem.Value.(*entry).paper = p
		c.lru.MoveToFront(elem)
		return
	}

	if c.lru.Len() >= c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).id)
		}
	}

	c.items[id] = c.lru.PushFront(&entry{id: id, paper: p})
}

// Len returns the number of cached papers.
func (c *PaperCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
