// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package scrobble posts now-playing and submission scrobbles to
// Last.fm. Registration is asynchronous: the jukebox calls Register
// from inside its transition lock and must not wait on the network.
package scrobble

import (
	"time"

	"github.com/shkh/lastfm-go/lastfm"

	"github.com/jukeboxd/jukeboxd/logger"
	"github.com/jukeboxd/jukeboxd/playqueue"
)

type request struct {
	track      *playqueue.Track
	username   string
	submission bool
	at         time.Time
}

// Scrobbler queues scrobbles to a background worker. Without API
// credentials it stays enabled but only logs what it would have sent.
type Scrobbler struct {
	api    *lastfm.Api
	logger logger.LoggerInterface
	queue  chan request
}

// New builds a scrobbler. Empty credentials yield a log-only scrobbler.
func New(apiKey, apiSecret, sessionKey string, lg logger.LoggerInterface) *Scrobbler {
	s := &Scrobbler{
		logger: lg,
		queue:  make(chan request, 16),
	}
	if apiKey != "" && apiSecret != "" && sessionKey != "" {
		s.api = lastfm.New(apiKey, apiSecret)
		s.api.SetSession(sessionKey)
	}
	go s.worker()
	return s
}

// Register queues a scrobble; it never blocks. A full queue drops the
// scrobble with a log line rather than stalling playback transitions.
func (s *Scrobbler) Register(t *playqueue.Track, username string, submission bool) {
	select {
	case s.queue <- request{track: t, username: username, submission: submission, at: time.Now()}:
	default:
		s.logger.Printf("scrobbler: queue full, dropping scrobble for %s", t.GetTitle())
	}
}

func (s *Scrobbler) worker() {
	for req := range s.queue {
		s.send(req)
	}
}

func (s *Scrobbler) send(req request) {
	if s.api == nil {
		s.logger.Printf("scrobbler: not configured, skipping %s (submission=%t)",
			req.track.GetTitle(), req.submission)
		return
	}

	params := lastfm.P{
		"artist": req.track.Artist,
		"track":  req.track.Title,
	}
	if req.track.Album != "" {
		params["album"] = req.track.Album
	}
	if req.track.Duration > 0 {
		params["duration"] = req.track.Duration
	}

	var err error
	if req.submission {
		params["timestamp"] = req.at.Unix()
		_, err = s.api.Track.Scrobble(params)
	} else {
		_, err = s.api.Track.UpdateNowPlaying(params)
	}
	if err != nil {
		s.logger.PrintError("scrobbler: register", err)
	}
}
