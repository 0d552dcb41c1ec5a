// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jukeboxd/jukeboxd/playqueue"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	tr := &playqueue.Track{Id: "t1", Path: "/music/t1.mp3", Size: 4096}

	st := r.CreateStreamStatus("alice", tr)
	require.NotNil(t, st)
	assert.NotEmpty(t, st.Id)
	assert.Equal(t, "alice", st.Username)
	assert.Equal(t, int64(4096), st.Bytes, "local playback counts the whole file up front")
	assert.False(t, st.Started.IsZero())

	active := r.Active()
	require.Len(t, active, 1)
	assert.Equal(t, st, active[0])

	r.RemoveStreamStatus(st)
	assert.Empty(t, r.Active())
}

func TestRegistryDistinctIds(t *testing.T) {
	r := NewRegistry()
	tr := &playqueue.Track{Id: "t1"}
	a := r.CreateStreamStatus("alice", tr)
	b := r.CreateStreamStatus("alice", tr)
	assert.NotEqual(t, a.Id, b.Id)
	assert.Len(t, r.Active(), 2)
}

func TestRemoveStreamStatusTolerant(t *testing.T) {
	r := NewRegistry()
	r.RemoveStreamStatus(nil)

	st := r.CreateStreamStatus("alice", &playqueue.Track{Id: "t1"})
	r.RemoveStreamStatus(st)
	r.RemoveStreamStatus(st)
	assert.Empty(t, r.Active())
}

func TestPlayCounts(t *testing.T) {
	p := NewPlayCounts()
	tr := &playqueue.Track{Id: "t1"}

	assert.Equal(t, 0, p.Count("t1"))
	p.Increment(tr)
	p.Increment(tr)
	p.Increment(&playqueue.Track{Id: "t2"})
	assert.Equal(t, 2, p.Count("t1"))
	assert.Equal(t, 1, p.Count("t2"))

	p.Increment(nil)
	assert.Equal(t, 2, p.Count("t1"))
}
