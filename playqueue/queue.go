// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package playqueue

import (
	"errors"
	"math/rand"
	"sync"
)

type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
)

var ErrBadIndex = errors.New("index out of range")

// Queue is the shared play queue for one control session. It carries its
// own lock, narrower than the jukebox controller's: every method takes it
// only for the duration of the call, so the controller (and anything else
// reading the queue) can do point reads without holding up playback.
type Queue struct {
	mu     sync.Mutex
	tracks []*Track
	index  int
	status Status
}

func New() *Queue {
	return &Queue{}
}

// Current returns the track at the play position, or nil when the queue
// is empty or exhausted.
func (q *Queue) Current() *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.currentLocked()
}

func (q *Queue) currentLocked() *Track {
	if q.index < 0 || q.index >= len(q.tracks) {
		return nil
	}
	return q.tracks[q.index]
}

// Advance moves the play position to the next track and returns it.
// Advancing past the last track returns nil and flips the queue to
// stopped; the position parks one past the end.
func (q *Queue) Advance() *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.index < len(q.tracks) {
		q.index++
	}
	cur := q.currentLocked()
	if cur == nil {
		q.status = StatusStopped
	}
	return cur
}

func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status
}

func (q *Queue) SetStatus(s Status) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.status = s
}

// SetTracks replaces the queue contents and rewinds to the first track.
func (q *Queue) SetTracks(tracks ...*Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = append([]*Track(nil), tracks...)
	q.index = 0
}

func (q *Queue) Add(tracks ...*Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = append(q.tracks, tracks...)
}

func (q *Queue) RemoveAt(i int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= len(q.tracks) {
		return ErrBadIndex
	}
	q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	if i < q.index {
		q.index--
	}
	return nil
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = nil
	q.index = 0
	q.status = StatusStopped
}

// Skip moves the play position to the given index.
func (q *Queue) Skip(i int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= len(q.tracks) {
		return ErrBadIndex
	}
	q.index = i
	return nil
}

// Shuffle reorders the queue randomly, keeping the current track at the
// top so playback is undisturbed.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	cur := q.currentLocked()
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
	if cur != nil {
		for i, t := range q.tracks {
			if t.Same(cur) {
				q.tracks[0], q.tracks[i] = q.tracks[i], q.tracks[0]
				break
			}
		}
	}
	q.index = 0
}

// Tracks returns a copy of the queue contents.
func (q *Queue) Tracks() []*Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*Track(nil), q.tracks...)
}

func (q *Queue) Index() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.index
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks)
}
