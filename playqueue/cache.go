// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package playqueue

import (
	"os"
	"sync"
	"time"
)

// TrackCache memoizes TrackFromFile results so queue edits do not
// re-read tags from disk for every request. Entries are validated
// against the file's modification time and evicted least recently used
// once the cache is over capacity.
type TrackCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	recency lruList
}

type cacheEntry struct {
	track   *Track
	modTime time.Time
}

func NewTrackCache(capacity int) *TrackCache {
	return &TrackCache{
		entries: make(map[string]*cacheEntry),
		recency: newLRUList(capacity),
	}
}

// Resolve returns the track for a local file path, from cache when the
// file is unchanged. A missing or unreadable file is an error.
func (c *TrackCache) Resolve(path string) (*Track, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if e, ok := c.entries[path]; ok && e.modTime.Equal(fi.ModTime()) {
		c.touchLocked(path)
		t := e.track
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	t, err := TrackFromFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = &cacheEntry{track: t, modTime: fi.ModTime()}
	c.touchLocked(path)
	c.mu.Unlock()
	return t, nil
}

func (c *TrackCache) touchLocked(path string) {
	if evicted := c.recency.touch(path); evicted != "" {
		delete(c.entries, evicted)
	}
}

func (c *TrackCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// lruList orders keys by access time, newest at the head. touch reports
// the key that falls off the tail once the list exceeds its capacity.
type lruList struct {
	lookup   map[string]*lruNode
	head     *lruNode
	tail     *lruNode
	capacity int
}

type lruNode struct {
	next *lruNode
	prev *lruNode
	key  string
}

func newLRUList(capacity int) lruList {
	return lruList{
		lookup:   make(map[string]*lruNode),
		capacity: capacity,
	}
}

func (l *lruList) touch(key string) string {
	if n, ok := l.lookup[key]; ok {
		if n != l.head {
			n.prev.next = n.next
			if n.next != nil {
				n.next.prev = n.prev
			} else {
				l.tail = n.prev
			}
			n.prev = nil
			n.next = l.head
			l.head.prev = n
			l.head = n
		}
		return ""
	}

	n := &lruNode{key: key, next: l.head}
	if l.head != nil {
		l.head.prev = n
	} else {
		l.tail = n
	}
	l.head = n
	l.lookup[key] = n

	if len(l.lookup) > l.capacity {
		evicted := l.tail
		l.tail = evicted.prev
		if l.tail != nil {
			l.tail.next = nil
		} else {
			l.head = nil
		}
		delete(l.lookup, evicted.key)
		return evicted.key
	}
	return ""
}
