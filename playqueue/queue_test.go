// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package playqueue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracks(ids ...string) []*Track {
	out := make([]*Track, len(ids))
	for i, id := range ids {
		out[i] = &Track{Id: id, Path: "/music/" + id, Title: id}
	}
	return out
}

func TestCurrentAndAdvance(t *testing.T) {
	q := New()
	assert.Nil(t, q.Current(), "empty queue has no current track")

	ts := tracks("a", "b")
	q.SetTracks(ts...)
	q.SetStatus(StatusPlaying)

	assert.Equal(t, ts[0], q.Current())
	assert.Equal(t, ts[1], q.Advance())
	assert.Equal(t, StatusPlaying, q.Status())

	assert.Nil(t, q.Advance(), "advancing past the end yields nil")
	assert.Equal(t, StatusStopped, q.Status(), "exhaustion stops the queue")
	assert.Nil(t, q.Current())
	assert.Equal(t, 2, q.Index(), "position parks one past the end")

	assert.Nil(t, q.Advance(), "advance is idempotent once parked")
	assert.Equal(t, 2, q.Index())
}

func TestSetTracksRewinds(t *testing.T) {
	q := New()
	q.SetTracks(tracks("a", "b", "c")...)
	require.NoError(t, q.Skip(2))

	q.SetTracks(tracks("x", "y")...)
	assert.Equal(t, 0, q.Index())
	assert.Equal(t, "x", q.Current().Id)
}

func TestAddKeepsPosition(t *testing.T) {
	q := New()
	q.SetTracks(tracks("a", "b")...)
	require.NoError(t, q.Skip(1))

	q.Add(tracks("c")...)
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, "b", q.Current().Id)
}

func TestRemoveAt(t *testing.T) {
	q := New()
	q.SetTracks(tracks("a", "b", "c")...)
	require.NoError(t, q.Skip(2))

	require.NoError(t, q.RemoveAt(0))
	assert.Equal(t, "c", q.Current().Id, "removal before the position shifts it left")
	assert.Equal(t, 1, q.Index())

	assert.ErrorIs(t, q.RemoveAt(5), ErrBadIndex)
	assert.ErrorIs(t, q.RemoveAt(-1), ErrBadIndex)
}

func TestSkip(t *testing.T) {
	q := New()
	q.SetTracks(tracks("a", "b", "c")...)

	require.NoError(t, q.Skip(2))
	assert.Equal(t, "c", q.Current().Id)

	assert.ErrorIs(t, q.Skip(3), ErrBadIndex)
	assert.Equal(t, "c", q.Current().Id, "failed skip leaves the position alone")
}

func TestClear(t *testing.T) {
	q := New()
	q.SetTracks(tracks("a")...)
	q.SetStatus(StatusPlaying)

	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Current())
	assert.Equal(t, StatusStopped, q.Status())
}

func TestShuffleKeepsCurrentOnTop(t *testing.T) {
	q := New()
	q.SetTracks(tracks("a", "b", "c", "d", "e")...)
	require.NoError(t, q.Skip(3))
	cur := q.Current()

	q.Shuffle()
	assert.Equal(t, 0, q.Index())
	assert.True(t, q.Current().Same(cur), "current track stays at the play position")
	assert.Equal(t, 5, q.Len())

	seen := map[string]bool{}
	for _, tr := range q.Tracks() {
		seen[tr.Id] = true
	}
	assert.Len(t, seen, 5, "shuffle permutes, never drops or duplicates")
}

func TestShuffleEmptyQueue(t *testing.T) {
	q := New()
	q.Shuffle()
	assert.Equal(t, 0, q.Len())
}

func TestTracksReturnsCopy(t *testing.T) {
	q := New()
	q.SetTracks(tracks("a", "b")...)

	snapshot := q.Tracks()
	snapshot[0] = nil
	assert.Equal(t, "a", q.Current().Id)
}

func TestTrackIdentity(t *testing.T) {
	a := &Track{Id: "x", Title: "one"}
	b := &Track{Id: "x", Title: "two"}
	c := &Track{Id: "y"}

	assert.True(t, a.Same(b), "identity is the id, not the metadata")
	assert.False(t, a.Same(c))

	var nilTrack *Track
	assert.False(t, nilTrack.Same(a))
	assert.False(t, a.Same(nil))
	assert.False(t, nilTrack.IsValid())
	assert.Equal(t, "", nilTrack.GetTitle())
	assert.Equal(t, 0, nilTrack.GetDuration())
}

func TestTrackFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0600))

	tr, err := TrackFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, tr.Id)
	assert.Equal(t, "song", tr.Title, "untagged files are titled by base name")
	assert.Equal(t, int64(16), tr.Size)
	assert.True(t, tr.IsValid())

	_, err = TrackFromFile(filepath.Join(dir, "missing.mp3"))
	assert.Error(t, err)
}
