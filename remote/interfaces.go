// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

// ControlledPlayer is what a remote control surface (MPRIS) needs from
// the jukebox.
type ControlledPlayer interface {
	// Registers a callback invoked when playback starts or resumes.
	OnPlaying(cb func())

	// Registers a callback invoked when playback pauses.
	OnPaused(cb func())

	// Registers a callback invoked when playback stops at the end of
	// the queue or degrades to idle.
	OnStopped(cb func())

	// Registers a callback invoked when a new track starts.
	OnSongChange(cb func(track TrackInterface))

	// GetTimePos is the position in the current track, in seconds.
	GetTimePos() float64

	Gain() float64
	SetGain(gain float64)

	Play()
	Pause()
	Stop()
	PlayNextTrack()
}

type TrackInterface interface {
	GetArtist() string
	GetTitle() string
	GetDuration() int

	// something like ID != ""
	IsValid() bool
}
