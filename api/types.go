// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package api

// Subsonic-style response envelope, JSON rendering.

const apiVersion = "1.16.1"

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Subsonic error codes used here.
const (
	errGeneric       = 0
	errMissingParam  = 10
	errWrongAuth     = 40
	errNotAuthorized = 50
	errNotFound      = 70
)

type Entry struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

type JukeboxStatus struct {
	CurrentIndex int     `json:"currentIndex"`
	Playing      bool    `json:"playing"`
	Gain         float64 `json:"gain"`
	Position     int     `json:"position"`
}

type JukeboxPlaylist struct {
	JukeboxStatus
	Entry []Entry `json:"entry"`
}

type Response struct {
	Status          string           `json:"status"`
	Version         string           `json:"version"`
	Type            string           `json:"type"`
	Error           *Error           `json:"error,omitempty"`
	JukeboxStatus   *JukeboxStatus   `json:"jukeboxStatus,omitempty"`
	JukeboxPlaylist *JukeboxPlaylist `json:"jukeboxPlaylist,omitempty"`
}

type envelope struct {
	Response Response `json:"subsonic-response"`
}
