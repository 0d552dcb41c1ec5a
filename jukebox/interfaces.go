// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package jukebox

import (
	"io"

	"github.com/jukeboxd/jukeboxd/playqueue"
	"github.com/jukeboxd/jukeboxd/status"
)

// Authorizer decides whether a user may drive the local audio device.
// A lookup error (unknown user, broken store) is distinct from "not
// authorized" and is fatal to the calling operation.
type Authorizer interface {
	IsAuthorized(username string) (bool, error)
}

// Pipeline turns a stored track plus a start offset into a decoded
// stream. Ownership of the returned stream passes to the caller.
type Pipeline interface {
	OpenStream(t *playqueue.Track, offsetSecs, durationSecs int, command string) (io.ReadCloser, error)
}

// StatusService does stream-status accounting for playing tracks.
type StatusService interface {
	CreateStreamStatus(username string, t *playqueue.Track) *status.Status
	RemoveStreamStatus(s *status.Status)
}

// PlayCounter records that a track has been played.
type PlayCounter interface {
	Increment(t *playqueue.Track)
}

// Scrobbler registers a now-playing (submission=false) or played
// (submission=true) scrobble for a track.
type Scrobbler interface {
	Register(t *playqueue.Track, username string, submission bool)
}
