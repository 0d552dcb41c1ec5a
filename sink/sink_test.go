// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package sink

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	errors []error
}

func (*recordingLogger) Print(string)                  {}
func (*recordingLogger) Printf(string, ...interface{}) {}
func (l *recordingLogger) PrintError(_ string, err error) {
	l.errors = append(l.errors, err)
}

func TestCountingReader(t *testing.T) {
	cr := &countingReader{r: strings.NewReader("0123456789")}

	buf := make([]byte, 4)
	n, err := cr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, int64(4), cr.Count())
	assert.False(t, cr.Done())

	rest, err := io.ReadAll(cr)
	require.NoError(t, err)
	assert.Equal(t, "456789", string(rest))
	assert.Equal(t, int64(10), cr.Count())
	assert.True(t, cr.Done(), "EOF marks the stream consumed")
}

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	n := copy(p, r.data)
	r.data = nil
	return n, r.err
}

func TestCountingReaderErrorBecomesEOF(t *testing.T) {
	lg := &recordingLogger{}
	readErr := errors.New("broken pipe")
	cr := &countingReader{r: &failingReader{data: []byte("ab"), err: readErr}, logger: lg}

	buf := make([]byte, 8)
	n, err := cr.Read(buf)
	assert.Equal(t, 2, n, "bytes delivered with the error still count")
	assert.Equal(t, io.EOF, err, "a dying transcoder ends the track, it does not wedge it")
	assert.True(t, cr.Done())
	assert.Equal(t, int64(2), cr.Count())
	require.Len(t, lg.errors, 1)
	assert.Equal(t, readErr, lg.errors[0])
}

func TestCountingReaderNilLogger(t *testing.T) {
	cr := &countingReader{r: &failingReader{err: errors.New("boom")}}
	_, err := cr.Read(make([]byte, 4))
	assert.Equal(t, io.EOF, err)
}

func TestPCMFormatConstants(t *testing.T) {
	assert.Equal(t, 192_000, BytesPerSecond, "48kHz stereo s16le")
}
