// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package status keeps transfer-status bookkeeping: which tracks are
// being fed to the audio device right now, and how often each track has
// been played.
package status

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jukeboxd/jukeboxd/playqueue"
)

// Status is one live stream-status record. The jukebox plays local
// files directly, so the whole file counts as transferred up front.
type Status struct {
	Id       string
	Username string
	Track    *playqueue.Track
	Bytes    int64
	Started  time.Time
}

// Registry tracks the open stream statuses.
type Registry struct {
	mu     sync.Mutex
	active map[string]*Status
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*Status)}
}

func (r *Registry) CreateStreamStatus(username string, t *playqueue.Track) *Status {
	s := &Status{
		Id:       uuid.NewString(),
		Username: username,
		Track:    t,
		Bytes:    t.Size,
		Started:  time.Now(),
	}
	r.mu.Lock()
	r.active[s.Id] = s
	r.mu.Unlock()
	return s
}

// RemoveStreamStatus closes out a record. Safe to call with nil or with
// a record that was already removed.
func (r *Registry) RemoveStreamStatus(s *Status) {
	if s == nil {
		return
	}
	r.mu.Lock()
	delete(r.active, s.Id)
	r.mu.Unlock()
}

// Active returns a snapshot of the open records.
func (r *Registry) Active() []*Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Status, 0, len(r.active))
	for _, s := range r.active {
		out = append(out, s)
	}
	return out
}
