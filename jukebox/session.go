// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package jukebox

import (
	"sync"

	"github.com/jukeboxd/jukeboxd/playqueue"
)

// Session is one remote control session: a user plus the client they
// control the jukebox from, with that client's play queue. The jukebox
// binds to at most one session at a time; binding is replaced wholesale
// when another session updates playback.
type Session struct {
	Username string
	Client   string

	// RemoteScrobbler marks sessions whose client does its own
	// scrobbling; the server then skips scrobble registration for them.
	RemoteScrobbler bool

	Queue *playqueue.Queue
}

// Sessions hands out sessions keyed by user and client name, creating
// them (with an empty queue) on first sight.
type Sessions struct {
	mu    sync.Mutex
	byKey map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{byKey: make(map[string]*Session)}
}

func (s *Sessions) Get(username, client string, remoteScrobbler bool) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := username + "\x00" + client
	if sess, ok := s.byKey[key]; ok {
		return sess
	}
	sess := &Session{
		Username:        username,
		Client:          client,
		RemoteScrobbler: remoteScrobbler,
		Queue:           playqueue.New(),
	}
	s.byKey[key] = sess
	return sess
}
