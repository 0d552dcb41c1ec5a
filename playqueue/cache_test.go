// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package playqueue

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTrackFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0600))
	return path
}

func TestTrackCacheResolve(t *testing.T) {
	dir := t.TempDir()
	path := writeTrackFile(t, dir, "song.mp3")
	c := NewTrackCache(8)

	a, err := c.Resolve(path)
	require.NoError(t, err)
	b, err := c.Resolve(path)
	require.NoError(t, err)
	assert.Same(t, a, b, "unchanged file resolves from cache")
	assert.Equal(t, 1, c.Len())

	_, err = c.Resolve(filepath.Join(dir, "missing.mp3"))
	assert.Error(t, err)
}

func TestTrackCacheInvalidatesOnModification(t *testing.T) {
	dir := t.TempDir()
	path := writeTrackFile(t, dir, "song.mp3")
	c := NewTrackCache(8)

	a, err := c.Resolve(path)
	require.NoError(t, err)

	then := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, then, then))

	b, err := c.Resolve(path)
	require.NoError(t, err)
	assert.NotSame(t, a, b, "a changed mtime forces a re-read")
	assert.Equal(t, 1, c.Len())
}

func TestTrackCacheEvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	c := NewTrackCache(2)

	p1 := writeTrackFile(t, dir, "one.mp3")
	p2 := writeTrackFile(t, dir, "two.mp3")
	p3 := writeTrackFile(t, dir, "three.mp3")

	_, err := c.Resolve(p1)
	require.NoError(t, err)
	_, err = c.Resolve(p2)
	require.NoError(t, err)

	// touch p1 so p2 is the eviction candidate
	_, err = c.Resolve(p1)
	require.NoError(t, err)

	_, err = c.Resolve(p3)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestLRUListOrdering(t *testing.T) {
	l := newLRUList(2)

	assert.Equal(t, "", l.touch("a"))
	assert.Equal(t, "", l.touch("b"))
	assert.Equal(t, "", l.touch("a"), "touching an existing key evicts nothing")
	assert.Equal(t, "b", l.touch("c"), "the least recently used key falls off")
	assert.Equal(t, "a", l.touch("d"))
}

func TestLRUListCapacityOne(t *testing.T) {
	l := newLRUList(1)
	assert.Equal(t, "", l.touch("a"))
	assert.Equal(t, "a", l.touch("b"))
	assert.Equal(t, "b", l.touch("c"))
	assert.Equal(t, "", l.touch("c"))
}
