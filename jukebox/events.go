// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package jukebox

import (
	"github.com/jukeboxd/jukeboxd/playqueue"
	"github.com/jukeboxd/jukeboxd/remote"
)

type EventType int

const (
	// playback reached the end of the queue or degraded to idle, Track nil
	EventStopped EventType = iota
	// a new track started playing, Track set
	EventPlaying
	// a paused track resumed, Track set
	EventUnpaused
	// the playing track was paused, Track set
	EventPaused
)

type Event struct {
	Type  EventType
	Track *playqueue.Track
}

// EventConsumer receives jukebox transition events, e.g. the monitor UI.
type EventConsumer interface {
	SendEvent(e Event)
}

// RegisterEventConsumer attaches the single event consumer. Must be
// called before playback starts.
func (j *Jukebox) RegisterEventConsumer(c EventConsumer) {
	j.cbMu.Lock()
	defer j.cbMu.Unlock()
	j.eventConsumer = c
}

func (j *Jukebox) OnPlaying(cb func()) {
	j.cbMu.Lock()
	defer j.cbMu.Unlock()
	j.cbOnPlaying = append(j.cbOnPlaying, cb)
}

func (j *Jukebox) OnPaused(cb func()) {
	j.cbMu.Lock()
	defer j.cbMu.Unlock()
	j.cbOnPaused = append(j.cbOnPaused, cb)
}

func (j *Jukebox) OnStopped(cb func()) {
	j.cbMu.Lock()
	defer j.cbMu.Unlock()
	j.cbOnStopped = append(j.cbOnStopped, cb)
}

func (j *Jukebox) OnSongChange(cb func(remote.TrackInterface)) {
	j.cbMu.Lock()
	defer j.cbMu.Unlock()
	j.cbOnSongChange = append(j.cbOnSongChange, cb)
}

// notifyLocked queues an event for dispatch. Dispatch happens on its
// own goroutine so listeners may call back into the jukebox without
// deadlocking against the controller lock held here.
func (j *Jukebox) notifyLocked(typ EventType, track *playqueue.Track) {
	select {
	case j.events <- Event{Type: typ, Track: track}:
	default:
		j.logger.Print("jukebox: event queue full, dropping event")
	}
}

func (j *Jukebox) dispatchEvents() {
	for e := range j.events {
		j.cbMu.Lock()
		consumer := j.eventConsumer
		var cbs []func()
		var songChange []func(remote.TrackInterface)
		switch e.Type {
		case EventPlaying:
			cbs = append(cbs, j.cbOnPlaying...)
			songChange = append(songChange, j.cbOnSongChange...)
		case EventUnpaused:
			cbs = append(cbs, j.cbOnPlaying...)
		case EventPaused:
			cbs = append(cbs, j.cbOnPaused...)
		case EventStopped:
			cbs = append(cbs, j.cbOnStopped...)
		}
		j.cbMu.Unlock()

		if consumer != nil {
			consumer.SendEvent(e)
		}
		for _, cb := range songChange {
			cb(e.Track)
		}
		for _, cb := range cbs {
			cb()
		}
	}
}
