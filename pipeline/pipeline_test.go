// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jukeboxd/jukeboxd/playqueue"
)

type testLogger struct{}

func (testLogger) Print(string)                  {}
func (testLogger) Printf(string, ...interface{}) {}
func (testLogger) PrintError(string, error)      {}

func TestExpandCommand(t *testing.T) {
	args := ExpandCommand(DefaultCommand, "/music/a song.mp3", 30, 150)
	assert.Equal(t, []string{
		"ffmpeg", "-ss", "30", "-i", "/music/a song.mp3",
		"-v", "0", "-f", "s16le", "-ar", "48000", "-ac", "2", "-",
	}, args, "placeholders expand per argument, spaces in paths survive")
}

func TestExpandCommandDuration(t *testing.T) {
	args := ExpandCommand("decode %s from %o for %d", "/m/x.flac", 0, 200)
	assert.Equal(t, []string{"decode", "/m/x.flac", "from", "0", "for", "200"}, args)
}

func TestExpandCommandEmpty(t *testing.T) {
	assert.Empty(t, ExpandCommand("", "/m/x.flac", 0, 0))
	assert.Empty(t, ExpandCommand("   ", "/m/x.flac", 0, 0))
}

func TestOpenStreamEmptyCommand(t *testing.T) {
	p := NewCommand(testLogger{})
	_, err := p.OpenStream(&playqueue.Track{Path: "/m/x.flac"}, 0, 0, "")
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestOpenStreamReadsCommandOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload")
	require.NoError(t, os.WriteFile(path, []byte("raw pcm bytes"), 0600))

	p := NewCommand(testLogger{})
	stream, err := p.OpenStream(&playqueue.Track{Path: path}, 0, 0, "cat %s")
	require.NoError(t, err)

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "raw pcm bytes", string(data))
	assert.NoError(t, stream.Close())
}

func TestOpenStreamMissingBinary(t *testing.T) {
	p := NewCommand(testLogger{})
	_, err := p.OpenStream(&playqueue.Track{Path: "/m/x.flac"}, 0, 0,
		"definitely-not-a-real-transcoder %s")
	assert.Error(t, err)
}

func TestCloseKillsProcess(t *testing.T) {
	p := NewCommand(testLogger{})
	stream, err := p.OpenStream(&playqueue.Track{Path: "unused"}, 0, 0, "sleep 60")
	require.NoError(t, err)

	assert.NoError(t, stream.Close(), "closing reaps a still-running transcoder")
}
