// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package jukebox plays music on the local audio device on behalf of
// one remote control session at a time.
package jukebox

import (
	"fmt"
	"sync"

	"github.com/jukeboxd/jukeboxd/logger"
	"github.com/jukeboxd/jukeboxd/playqueue"
	"github.com/jukeboxd/jukeboxd/remote"
	"github.com/jukeboxd/jukeboxd/sink"
	"github.com/jukeboxd/jukeboxd/status"
)

var _ sink.Listener = (*Jukebox)(nil)
var _ remote.ControlledPlayer = (*Jukebox)(nil)

// Config wires the jukebox to its collaborators.
type Config struct {
	Auth       Authorizer
	Pipeline   Pipeline
	Status     StatusService
	PlayCounts PlayCounter
	Scrobbler  Scrobbler
	NewSink    sink.Factory
	// Command is the external transcode command handed to the pipeline,
	// with %s/%o/%d placeholders.
	Command string
	Logger  logger.LoggerInterface
}

// Jukebox is the playback controller. Every public entry point runs
// under one exclusive lock; methods suffixed Locked assume it is held.
// The sink's end-of-media callback re-enters through OnSinkEvent on the
// sink's own goroutine and takes the same lock.
type Jukebox struct {
	mu sync.Mutex

	auth      Authorizer
	pipeline  Pipeline
	statuses  StatusService
	counts    PlayCounter
	scrobbler Scrobbler
	newSink   sink.Factory
	command   string
	logger    logger.LoggerInterface

	session *Session
	active  *activeTrack
	gain    float64
	muted   bool

	events         chan Event
	cbMu           sync.Mutex
	eventConsumer  EventConsumer
	cbOnPlaying    []func()
	cbOnPaused     []func()
	cbOnStopped    []func()
	cbOnSongChange []func(remote.TrackInterface)
}

// activeTrack ties together everything that only exists while a sink is
// open. A nil activeTrack is the idle state; the invalid intermediate
// combinations (sink without track, track without sink) cannot be
// represented.
type activeTrack struct {
	sink   sink.Sink
	track  *playqueue.Track
	offset int // seconds into the track where the sink's stream starts
	status *status.Status
}

func New(cfg Config) *Jukebox {
	j := &Jukebox{
		auth:      cfg.Auth,
		pipeline:  cfg.Pipeline,
		statuses:  cfg.Status,
		counts:    cfg.PlayCounts,
		scrobbler: cfg.Scrobbler,
		newSink:   cfg.NewSink,
		command:   cfg.Command,
		logger:    cfg.Logger,
		gain:      sink.DefaultGain,
		events:    make(chan Event, 16),
	}
	go j.dispatchEvents()
	return j
}

// Update starts, resumes or pauses local playback for the session.
// With the session's queue in playing state it binds the session and
// (re)starts the queue's current track offsetSecs into it; otherwise it
// pauses the open sink, if any. Authorization lookup failures are
// returned; everything that goes wrong past that point is logged and
// degrades playback to idle instead of surfacing to the caller.
func (j *Jukebox) Update(s *Session, offsetSecs int) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	ok, err := j.auth.IsAuthorized(s.Username)
	if err != nil {
		return fmt.Errorf("jukebox: authorize %s: %w", s.Username, err)
	}
	if !ok {
		j.logger.Printf("%s is not authorized for jukebox playback", s.Username)
		return nil
	}

	if s.Queue.Status() == playqueue.StatusPlaying {
		j.session = s
		j.playLocked(s.Queue.Current(), offsetSecs)
	} else if j.active != nil {
		j.active.sink.Pause()
		j.notifyLocked(EventPaused, j.active.track)
	}
	return nil
}

// playLocked is the start/resume algorithm. It is called from Update
// and, with offset 0, from the end-of-media callback. t == nil means
// the queue is exhausted and playback ends idle.
func (j *Jukebox) playLocked(t *playqueue.Track, offsetSecs int) {
	// Resume if possible: same track, paused sink, no seek requested.
	// The only path that skips the pipeline round trip.
	if j.active != nil && j.active.track.Same(t) &&
		j.active.sink.State() == sink.StatePaused && offsetSecs == 0 {
		j.active.sink.Play()
		j.notifyLocked(EventUnpaused, t)
		return
	}

	if j.active != nil {
		old := j.active
		j.active = nil
		if err := old.sink.Close(); err != nil {
			j.logger.PrintError("jukebox: close sink", err)
		}
		// Accounting for the old track must close before the new
		// track's opens.
		j.onTrackEndLocked(old)
	}

	if t == nil {
		j.notifyLocked(EventStopped, nil)
		return
	}

	remaining := 0
	if t.Duration > 0 {
		remaining = t.Duration - offsetSecs
	}
	stream, err := j.pipeline.OpenStream(t, offsetSecs, remaining, j.command)
	if err != nil {
		j.logger.PrintError("jukebox: open stream", err)
		j.notifyLocked(EventStopped, nil)
		return
	}
	snk, err := j.newSink(stream, j, j.logger)
	if err != nil {
		stream.Close()
		j.logger.PrintError("jukebox: create sink", err)
		j.notifyLocked(EventStopped, nil)
		return
	}

	snk.SetGain(j.effectiveGainLocked())
	snk.Play()
	st := j.onTrackStartLocked(t)
	j.active = &activeTrack{sink: snk, track: t, offset: offsetSecs, status: st}
	j.notifyLocked(EventPlaying, t)
}

// OnSinkEvent is the sink's listener contract. Only end of media moves
// the state machine; everything else is the sink's own business.
func (j *Jukebox) OnSinkEvent(s sink.Sink, e sink.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e != sink.EventEndOfMedia {
		return
	}
	// A sink that was replaced or closed may still deliver a late
	// event from its goroutine; it no longer speaks for the jukebox.
	if j.active == nil || j.active.sink != s {
		return
	}

	next := j.session.Queue.Advance()
	j.playLocked(next, 0)
}

func (j *Jukebox) onTrackStartLocked(t *playqueue.Track) *status.Status {
	j.logger.Printf("%s starting jukebox for %q", j.session.Username, t.Path)
	st := j.statuses.CreateStreamStatus(j.session.Username, t)
	j.counts.Increment(t)
	j.scrobbleLocked(t, false)
	return st
}

func (j *Jukebox) onTrackEndLocked(a *activeTrack) {
	j.logger.Printf("%s stopping jukebox for %q", j.session.Username, a.track.Path)
	if a.status != nil {
		j.statuses.RemoveStreamStatus(a.status)
	}
	j.scrobbleLocked(a.track, true)
}

func (j *Jukebox) scrobbleLocked(t *playqueue.Track, submission bool) {
	if j.session == nil || j.session.RemoteScrobbler {
		return
	}
	j.scrobbler.Register(t, j.session.Username, submission)
}

func (j *Jukebox) effectiveGainLocked() float64 {
	if j.muted {
		return 0
	}
	return j.gain
}

// SetGain sets the output gain (0..1). A positive gain unmutes.
func (j *Jukebox) SetGain(gain float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.gain = gain
	if gain > 0 {
		j.muted = false
	}
	if j.active != nil {
		j.active.sink.SetGain(j.effectiveGainLocked())
	}
}

func (j *Jukebox) SetMute(mute bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.muted = mute
	if j.active != nil {
		j.active.sink.SetGain(j.effectiveGainLocked())
	}
}

func (j *Jukebox) Gain() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.gain
}

func (j *Jukebox) Muted() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.muted
}

// Position is the absolute position in the current track in seconds,
// 0 when idle.
func (j *Jukebox) Position() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.active == nil {
		return 0
	}
	return j.active.offset + j.active.sink.Position()
}

// Playing reports whether a sink exists and is producing audio.
func (j *Jukebox) Playing() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.active != nil && j.active.sink.State() == sink.StatePlaying
}

// CurrentTrack is the track the jukebox last started, nil when idle.
func (j *Jukebox) CurrentTrack() *playqueue.Track {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.active == nil {
		return nil
	}
	return j.active.track
}

// Session returns the session currently bound to the jukebox, or nil.
func (j *Jukebox) Session() *Session {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.session
}
