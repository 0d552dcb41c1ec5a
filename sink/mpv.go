// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package sink

import (
	"fmt"
	"io"
	"os"
	"sync"

	mpv "github.com/supersonic-app/go-mpv"

	"github.com/jukeboxd/jukeboxd/logger"
)

var _ Sink = (*MpvSink)(nil)

// MpvSink plays the decoded stream through an embedded libmpv instance.
// mpv reads the stream over an fd:// URL and does its own output-device
// handling; EVENT_END_FILE is mapped to end of media.
type MpvSink struct {
	mu       sync.Mutex
	instance *mpv.Mpv
	stream   io.ReadCloser
	pipe     *os.File // read end handed to mpv; nil if stream was already a file
	listener Listener
	logger   logger.LoggerInterface
	state    State
	eomSent  bool
}

// NewMpv builds a paused libmpv sink around the stream.
func NewMpv(stream io.ReadCloser, l Listener, lg logger.LoggerInterface) (Sink, error) {
	instance := mpv.Create()

	if err := instance.SetOptionString("audio-display", "no"); err != nil {
		instance.TerminateDestroy()
		return nil, err
	}
	if err := instance.SetOptionString("video", "no"); err != nil {
		instance.TerminateDestroy()
		return nil, err
	}
	if err := instance.Initialize(); err != nil {
		instance.TerminateDestroy()
		return nil, err
	}

	s := &MpvSink{
		instance: instance,
		stream:   stream,
		listener: l,
		logger:   lg,
		state:    StatePaused,
	}

	// mpv wants a file descriptor. exec pipes already are one; anything
	// else gets pumped through an os.Pipe.
	f, ok := stream.(*os.File)
	if !ok {
		pr, pw, err := os.Pipe()
		if err != nil {
			instance.TerminateDestroy()
			return nil, err
		}
		s.pipe = pr
		f = pr
		go func() {
			_, _ = io.Copy(pw, stream)
			pw.Close()
		}()
	}

	if err := instance.SetProperty("pause", mpv.FORMAT_FLAG, true); err != nil {
		instance.TerminateDestroy()
		return nil, err
	}
	if err := instance.Command([]string{"loadfile", fmt.Sprintf("fd://%d", f.Fd())}); err != nil {
		instance.TerminateDestroy()
		return nil, err
	}

	go s.eventLoop()
	return s, nil
}

// eventLoop owns the mpv handle's event queue. It also performs the
// final TerminateDestroy: destroying the handle while WaitEvent is
// blocked on it is not allowed, so Close only asks mpv to quit and the
// loop tears down on the resulting shutdown event.
func (s *MpvSink) eventLoop() {
	for {
		evt := s.instance.WaitEvent(1)
		if evt == nil {
			continue
		}

		switch evt.Event_Id {
		case mpv.EVENT_SHUTDOWN:
			s.instance.TerminateDestroy()
			if s.pipe != nil {
				s.pipe.Close()
			}
			return

		case mpv.EVENT_END_FILE:
			s.mu.Lock()
			fire := s.state != StateClosed && !s.eomSent
			s.eomSent = true
			s.mu.Unlock()
			if fire {
				s.listener.OnSinkEvent(s, EventEndOfMedia)
			}

		case mpv.EVENT_IDLE, mpv.EVENT_NONE, mpv.EVENT_START_FILE:
			// uninteresting here

		default:
			s.logger.Printf("mpv sink: unhandled event id %v", evt.Event_Id)
		}
	}
}

func (s *MpvSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	if err := s.instance.SetProperty("pause", mpv.FORMAT_FLAG, false); err != nil {
		s.logger.PrintError("mpv sink: play", err)
		return
	}
	s.state = StatePlaying
}

func (s *MpvSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	if err := s.instance.SetProperty("pause", mpv.FORMAT_FLAG, true); err != nil {
		s.logger.PrintError("mpv sink: pause", err)
		return
	}
	s.state = StatePaused
}

func (s *MpvSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed
	if err := s.instance.Command([]string{"quit"}); err != nil {
		s.logger.PrintError("mpv sink: quit", err)
	}
	return s.stream.Close()
}

func (s *MpvSink) SetGain(g float64) {
	if g < 0 {
		g = 0
	} else if g > 1 {
		g = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	if err := s.instance.SetProperty("volume", mpv.FORMAT_INT64, int64(g*100)); err != nil {
		s.logger.PrintError("mpv sink: volume", err)
	}
}

func (s *MpvSink) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return 0
	}
	pos, err := s.instance.GetProperty("playback-time", mpv.FORMAT_INT64)
	if err != nil || pos == nil {
		return 0
	}
	return int(pos.(int64))
}

func (s *MpvSink) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
