// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package pipeline opens decoded audio streams by running the
// configured external transcode command.
package pipeline

import (
	"errors"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jukeboxd/jukeboxd/logger"
	"github.com/jukeboxd/jukeboxd/playqueue"
)

// DefaultCommand decodes anything ffmpeg can read into the raw PCM the
// oto sink expects. The mpv backend accepts this stream too.
const DefaultCommand = "ffmpeg -ss %o -i %s -v 0 -f s16le -ar 48000 -ac 2 -"

var ErrEmptyCommand = errors.New("pipeline: empty transcode command")

// CommandPipeline launches one transcoder process per stream. Closing
// the returned stream kills the process.
type CommandPipeline struct {
	logger logger.LoggerInterface
}

func NewCommand(lg logger.LoggerInterface) *CommandPipeline {
	return &CommandPipeline{logger: lg}
}

// OpenStream starts the command with %s, %o and %d replaced by the
// track path, the start offset and the remaining duration in seconds.
// Replacement is per argument, so paths with spaces stay one argument.
func (p *CommandPipeline) OpenStream(t *playqueue.Track, offsetSecs, durationSecs int, command string) (io.ReadCloser, error) {
	args := ExpandCommand(command, t.Path, offsetSecs, durationSecs)
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	cmd := exec.Command(args[0], args[1:]...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	p.logger.Printf("pipeline: started %q for %q", args[0], t.Path)

	return &processStream{out: out, cmd: cmd}, nil
}

// ExpandCommand splits the command template on whitespace and fills in
// the placeholders.
func ExpandCommand(command, path string, offsetSecs, durationSecs int) []string {
	args := strings.Fields(command)
	for i, a := range args {
		a = strings.ReplaceAll(a, "%s", path)
		a = strings.ReplaceAll(a, "%o", strconv.Itoa(offsetSecs))
		a = strings.ReplaceAll(a, "%d", strconv.Itoa(durationSecs))
		args[i] = a
	}
	return args
}

// processStream is the transcoder's stdout plus the process behind it.
type processStream struct {
	out io.ReadCloser
	cmd *exec.Cmd
}

func (s *processStream) Read(p []byte) (int, error) {
	return s.out.Read(p)
}

// Close kills the transcoder and reaps it. Killing a process that
// already exited is fine, and a kill-induced exit error is expected, so
// neither is reported.
func (s *processStream) Close() error {
	err := s.out.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	return err
}
