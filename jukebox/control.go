// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package jukebox

import (
	"github.com/jukeboxd/jukeboxd/playqueue"
)

// Transport methods for the remote.ControlledPlayer contract (MPRIS and
// the monitor act on whichever session is bound). All of them are
// no-ops while no session has used the jukebox yet.

func (j *Jukebox) Play() {
	j.mu.Lock()
	s := j.session
	j.mu.Unlock()
	if s == nil {
		return
	}
	s.Queue.SetStatus(playqueue.StatusPlaying)
	if err := j.Update(s, 0); err != nil {
		j.logger.PrintError("jukebox: play", err)
	}
}

func (j *Jukebox) Pause() {
	j.mu.Lock()
	s := j.session
	j.mu.Unlock()
	if s == nil {
		return
	}
	s.Queue.SetStatus(playqueue.StatusStopped)
	if err := j.Update(s, 0); err != nil {
		j.logger.PrintError("jukebox: pause", err)
	}
}

// Stop pauses the device; the queue keeps its position so a later play
// resumes where it left off.
func (j *Jukebox) Stop() {
	j.Pause()
}

func (j *Jukebox) PlayNextTrack() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.session == nil {
		return
	}
	next := j.session.Queue.Advance()
	j.playLocked(next, 0)
}

func (j *Jukebox) GetTimePos() float64 {
	return float64(j.Position())
}
