// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package sink

import (
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/jukeboxd/jukeboxd/logger"
)

// PCM format the transcode command must produce for the oto backend.
const (
	SampleRate    = 48_000
	Channels      = 2
	BytesPerFrame = Channels * 2 // s16le

	BytesPerSecond = SampleRate * BytesPerFrame
)

// oto allows one context per process, so it is created on first use and
// shared by every sink built afterwards.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func otoContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoErr
}

var _ Sink = (*OtoSink)(nil)

// OtoSink plays raw s16le PCM through ebitengine/oto. oto has no
// end-of-stream callback, so a watcher goroutine polls for "stream hit
// EOF and the device buffer drained" and reports that as end of media.
type OtoSink struct {
	mu       sync.Mutex
	player   *oto.Player
	stream   io.ReadCloser
	counter  *countingReader
	listener Listener
	logger   logger.LoggerInterface
	state    State
	closed   chan struct{}
}

// NewOto builds a paused PCM sink around the stream.
func NewOto(stream io.ReadCloser, l Listener, lg logger.LoggerInterface) (Sink, error) {
	ctx, err := otoContext()
	if err != nil {
		return nil, err
	}

	cr := &countingReader{r: stream, logger: lg}
	s := &OtoSink{
		player:   ctx.NewPlayer(cr),
		stream:   stream,
		counter:  cr,
		listener: l,
		logger:   lg,
		state:    StatePaused,
		closed:   make(chan struct{}),
	}
	go s.watchEndOfMedia()
	return s, nil
}

func (s *OtoSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.player.Play()
	s.state = StatePlaying
}

func (s *OtoSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.player.Pause()
	s.state = StatePaused
}

// Close is idempotent. It does not wait for the watcher goroutine; a
// late event from it is discarded by the listener's stale-sink guard.
func (s *OtoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed
	close(s.closed)
	err := s.player.Close()
	if cerr := s.stream.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *OtoSink) SetGain(g float64) {
	if g < 0 {
		g = 0
	} else if g > 1 {
		g = 1
	}
	s.player.SetVolume(g)
}

func (s *OtoSink) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return 0
	}
	buffered := int64(s.player.BufferedSize())
	played := s.counter.Count() - buffered
	if played < 0 {
		played = 0
	}
	return int(played / BytesPerSecond)
}

func (s *OtoSink) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *OtoSink) watchEndOfMedia() {
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-s.closed:
			return
		case <-tick.C:
		}

		s.mu.Lock()
		done := s.state == StatePlaying && s.counter.Done() && s.player.BufferedSize() == 0
		s.mu.Unlock()

		if done {
			s.listener.OnSinkEvent(s, EventEndOfMedia)
			return
		}
	}
}

// countingReader tracks consumed bytes and EOF for position reporting
// and end-of-media detection. A read error is logged and treated like
// EOF so a dying transcoder ends the track instead of wedging it.
type countingReader struct {
	r      io.Reader
	logger logger.LoggerInterface

	mu    sync.Mutex
	count int64
	done  bool
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)

	c.mu.Lock()
	c.count += int64(n)
	if err != nil {
		c.done = true
	}
	c.mu.Unlock()

	if err != nil && err != io.EOF {
		if c.logger != nil {
			c.logger.PrintError("sink: stream read", err)
		}
		err = io.EOF
	}
	return n, err
}

func (c *countingReader) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *countingReader) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}
