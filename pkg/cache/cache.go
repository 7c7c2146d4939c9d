// Package cache keeps the functions found in a file, keyed by a hash of the
// file's content, in an LRU that can be persisted between runs.
package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// formatVersion is bumped whenever Entry changes shape. Files written with
// another version are ignored on load.
const formatVersion = 1

// ErrKeyNotFound is returned when a key is not found in the cache.
var ErrKeyNotFound = errors.New("key not found")

// Entry is one cached parse result.
type Entry struct {
	Key        string               `msgpack:"key"`
	Functions  []types.FunctionInfo `msgpack:"functions"`
	CreatedAt  time.Time            `msgpack:"created_at"`
	AccessedAt time.Time            `msgpack:"accessed_at"`
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// LRU is an in-memory least-recently-used cache of entries.
type LRU struct {
	mu         sync.Mutex
	items      map[string]*listItem
	lru        list
	maxEntries int
	hits       int
	misses     int
}

// listItem is an entry in the recency list.
type listItem struct {
	Entry
	prev *listItem
	next *listItem
}

// list is a doubly-linked list, most recently used at the head.
type list struct {
	head *listItem
	tail *listItem
	len  int
}

func (l *list) pushFront(item *listItem) {
	item.prev = nil
	item.next = l.head
	if l.head != nil {
		l.head.prev = item
	}
	l.head = item
	if l.tail == nil {
		l.tail = item
	}
	l.len++
}

func (l *list) remove(item *listItem) {
	if item.prev != nil {
		item.prev.next = item.next
	} else {
		l.head = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	} else {
		l.tail = item.prev
	}
	item.prev, item.next = nil, nil
	l.len--
}

func (l *list) moveToFront(item *listItem) {
	if item == l.head {
		return
	}
	l.remove(item)
	l.pushFront(item)
}

// NewLRU creates a cache holding at most maxEntries entries. 0 means
// unlimited.
func NewLRU(maxEntries int) *LRU {
	return &LRU{
		items:      make(map[string]*listItem),
		maxEntries: maxEntries,
	}
}

// Get returns the entry for key and marks it most recently used.
func (c *LRU) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		c.misses++
		return Entry{}, false
	}
	c.hits++
	item.AccessedAt = time.Now()
	c.lru.moveToFront(item)
	return item.Entry, true
}

// Set stores functions under key, evicting the least recently used entry
// when full.
func (c *LRU) Set(key string, functions []types.FunctionInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if item, exists := c.items[key]; exists {
		item.Functions = functions
		item.AccessedAt = now
		c.lru.moveToFront(item)
		return
	}

	item := &listItem{Entry: Entry{Key: key, Functions: functions, CreatedAt: now, AccessedAt: now}}
	c.items[key] = item
	c.lru.pushFront(item)
	c.evictIfNeeded()
}

// Delete removes key. It returns ErrKeyNotFound if key is absent.
func (c *LRU) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		return ErrKeyNotFound
	}
	c.lru.remove(item)
	delete(c.items, key)
	return nil
}

// Len returns the number of entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit and miss counts since creation.
func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.items)}
}

func (c *LRU) evictIfNeeded() {
	for c.maxEntries > 0 && c.lru.len > c.maxEntries {
		item := c.lru.tail
		c.lru.remove(item)
		delete(c.items, item.Key)
	}
}

// snapshot is the persisted form of the cache.
type snapshot struct {
	Version int     `msgpack:"version"`
	Entries []Entry `msgpack:"entries"`
}

// Save writes the cache to w with msgpack, most recently used first.
func (c *LRU) Save(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := snapshot{Version: formatVersion, Entries: make([]Entry, 0, len(c.items))}
	for item := c.lru.head; item != nil; item = item.next {
		snap.Entries = append(snap.Entries, item.Entry)
	}
	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	return nil
}

// Load replaces the cache contents with the entries read from r. A
// snapshot from another format version leaves the cache empty.
func (c *LRU) Load(r io.Reader) error {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*listItem)
	c.lru = list{}
	if snap.Version != formatVersion {
		return nil
	}
	for i := len(snap.Entries) - 1; i >= 0; i-- {
		item := &listItem{Entry: snap.Entries[i]}
		c.items[item.Key] = item
		c.lru.pushFront(item)
	}
	c.evictIfNeeded()
	return nil
}

// SaveFile writes the cache to path, creating parent directories.
func (c *LRU) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()
	return c.Save(f)
}

// LoadFile loads the cache from path. A missing file is not an error.
func (c *LRU) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()
	return c.Load(f)
}
