// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package status

import (
	"sync"

	"github.com/jukeboxd/jukeboxd/playqueue"
)

// PlayCounts is an in-memory play count store, keyed by track id.
type PlayCounts struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewPlayCounts() *PlayCounts {
	return &PlayCounts{counts: make(map[string]int)}
}

func (p *PlayCounts) Increment(t *playqueue.Track) {
	if t == nil {
		return
	}
	p.mu.Lock()
	p.counts[t.Id]++
	p.mu.Unlock()
}

func (p *PlayCounts) Count(id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[id]
}
