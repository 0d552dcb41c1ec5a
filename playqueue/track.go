// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package playqueue

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Track is one playable media file. Identity is the Id; two Track values
// with the same Id are the same track no matter which queue slot they
// occupy.
type Track struct {
	Id       string
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration int   // seconds, 0 when unknown
	Size     int64 // bytes
}

// TrackFromFile builds a Track for a local media file. Tag metadata is
// best effort; a file with no readable tags still plays, titled by its
// base name.
func TrackFromFile(path string) (*Track, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	t := &Track{
		Id:    path,
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Size:  fi.Size(),
	}

	if f, err := os.Open(path); err == nil {
		if md, err := tag.ReadFrom(f); err == nil {
			if md.Title() != "" {
				t.Title = md.Title()
			}
			t.Artist = md.Artist()
			t.Album = md.Album()
		}
		f.Close()
	}

	return t, nil
}

func (t *Track) GetArtist() string {
	if t == nil {
		return ""
	}
	return t.Artist
}

func (t *Track) GetTitle() string {
	if t == nil {
		return ""
	}
	return t.Title
}

func (t *Track) GetDuration() int {
	if t == nil {
		return 0
	}
	return t.Duration
}

func (t *Track) IsValid() bool {
	return t != nil && t.Id != ""
}

// Same reports track identity, nil-safe on both sides.
func (t *Track) Same(other *Track) bool {
	return t != nil && other != nil && t.Id == other.Id
}
