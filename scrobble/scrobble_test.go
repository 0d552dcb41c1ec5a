// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package scrobble

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jukeboxd/jukeboxd/playqueue"
)

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) Print(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *captureLogger) Printf(s string, as ...interface{}) {
	l.Print(fmt.Sprintf(s, as...))
}

func (l *captureLogger) PrintError(source string, err error) {
	l.Print(source + ": " + err.Error())
}

func (l *captureLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestUnconfiguredScrobblerLogsOnly(t *testing.T) {
	lg := &captureLogger{}
	s := New("", "", "", lg)

	s.Register(&playqueue.Track{Id: "t1", Title: "Song One"}, "alice", false)
	s.Register(&playqueue.Track{Id: "t1", Title: "Song One"}, "alice", true)

	waitFor(t, func() bool { return len(lg.all()) == 2 })
	lines := lg.all()
	assert.Contains(t, lines[0], "Song One")
	assert.Contains(t, lines[0], "submission=false")
	assert.Contains(t, lines[1], "submission=true")
}

func TestRegisterNeverBlocks(t *testing.T) {
	lg := &captureLogger{}
	s := New("", "", "", lg)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			s.Register(&playqueue.Track{Id: "t", Title: "flood"}, "alice", true)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("register blocked on a full queue")
	}
}
