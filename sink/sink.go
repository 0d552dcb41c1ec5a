// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package sink drives the machine's audio output. A Sink owns one decoded
// stream from open to close; the jukebox controller never talks to the
// audio device except through this interface.
package sink

import (
	"io"

	"github.com/jukeboxd/jukeboxd/logger"
)

type State int

const (
	StateClosed State = iota
	StatePlaying
	StatePaused
)

type Event int

const (
	// EventEndOfMedia fires once when the sink has played the stream to
	// completion. It is delivered from the sink's own goroutine, never
	// from inside a Sink method call.
	EventEndOfMedia Event = iota
)

// Listener receives sink lifecycle events.
type Listener interface {
	OnSinkEvent(s Sink, e Event)
}

// Sink is one live playback of one stream. Closing it releases the
// stream; a closed sink never emits events.
type Sink interface {
	Play()
	Pause()
	Close() error
	SetGain(g float64)
	// Position is whole seconds of audio played since the stream started.
	Position() int
	State() State
}

// Factory builds a sink around a decoded stream. The sink takes
// ownership of the stream and is created paused.
type Factory func(stream io.ReadCloser, l Listener, lg logger.LoggerInterface) (Sink, error)

// DefaultGain is the output gain applied before any client sets one.
const DefaultGain = 0.75
