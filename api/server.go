// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package api is the Subsonic-flavoured REST surface that remote
// clients drive the jukebox with. It owns request authentication and
// queue editing; playback itself always goes through jukebox.Update.
package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jukeboxd/jukeboxd/auth"
	"github.com/jukeboxd/jukeboxd/jukebox"
	"github.com/jukeboxd/jukeboxd/logger"
	"github.com/jukeboxd/jukeboxd/playqueue"
)

type Server struct {
	jukebox  *jukebox.Jukebox
	sessions *jukebox.Sessions
	auth     *auth.Store
	musicDir string
	tracks   *playqueue.TrackCache
	logger   logger.LoggerInterface
}

// trackCacheSize bounds how many tag-parsed tracks are kept around for
// queue edits.
const trackCacheSize = 512

func NewServer(j *jukebox.Jukebox, sessions *jukebox.Sessions, store *auth.Store, musicDir string, lg logger.LoggerInterface) *Server {
	return &Server{
		jukebox:  j,
		sessions: sessions,
		auth:     store,
		musicDir: filepath.Clean(musicDir),
		tracks:   playqueue.NewTrackCache(trackCacheSize),
		logger:   lg,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/ping.view", s.handlePing)
	mux.HandleFunc("/rest/jukeboxControl.view", s.handleJukeboxControl)
	return mux
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if !s.authenticate(r) {
		s.respondError(w, errWrongAuth, "Wrong username or password.")
		return
	}
	s.respond(w, Response{})
}

func (s *Server) handleJukeboxControl(w http.ResponseWriter, r *http.Request) {
	if !s.authenticate(r) {
		s.respondError(w, errWrongAuth, "Wrong username or password.")
		return
	}

	username := r.URL.Query().Get("u")
	ok, err := s.auth.IsAuthorized(username)
	if err != nil {
		s.respondError(w, errWrongAuth, err.Error())
		return
	}
	if !ok {
		s.respondError(w, errNotAuthorized, username+" is not authorized to control the jukebox.")
		return
	}

	// A request carrying a clientId comes from a player that scrobbles
	// for itself; the server then skips its own registration.
	client := r.URL.Query().Get("c")
	remoteScrobbler := r.URL.Query().Get("clientId") != ""
	sess := s.sessions.Get(username, client, remoteScrobbler)

	action := r.URL.Query().Get("action")
	switch action {
	case "get":
		s.respondPlaylist(w, sess)
		return

	case "status":
		// fall through to the status response below

	case "set":
		tracks, err := s.resolveTracks(r)
		if err != nil {
			s.respondError(w, errNotFound, err.Error())
			return
		}
		sess.Queue.SetTracks(tracks...)

	case "add":
		tracks, err := s.resolveTracks(r)
		if err != nil {
			s.respondError(w, errNotFound, err.Error())
			return
		}
		sess.Queue.Add(tracks...)

	case "remove":
		index, err := intParam(r, "index")
		if err != nil {
			s.respondError(w, errMissingParam, "Required parameter index missing or invalid.")
			return
		}
		if err := sess.Queue.RemoveAt(index); err != nil {
			s.respondError(w, errGeneric, err.Error())
			return
		}

	case "clear":
		sess.Queue.Clear()

	case "shuffle":
		sess.Queue.Shuffle()

	case "start":
		sess.Queue.SetStatus(playqueue.StatusPlaying)
		if err := s.jukebox.Update(sess, 0); err != nil {
			s.respondError(w, errWrongAuth, err.Error())
			return
		}

	case "stop":
		sess.Queue.SetStatus(playqueue.StatusStopped)
		if err := s.jukebox.Update(sess, 0); err != nil {
			s.respondError(w, errWrongAuth, err.Error())
			return
		}

	case "skip":
		index, err := intParam(r, "index")
		if err != nil {
			s.respondError(w, errMissingParam, "Required parameter index missing or invalid.")
			return
		}
		offset, _ := intParam(r, "offset")
		if err := sess.Queue.Skip(index); err != nil {
			s.respondError(w, errGeneric, err.Error())
			return
		}
		sess.Queue.SetStatus(playqueue.StatusPlaying)
		if err := s.jukebox.Update(sess, offset); err != nil {
			s.respondError(w, errWrongAuth, err.Error())
			return
		}

	case "setGain":
		gain, err := strconv.ParseFloat(r.URL.Query().Get("gain"), 64)
		if err != nil {
			s.respondError(w, errMissingParam, "Required parameter gain missing or invalid.")
			return
		}
		s.jukebox.SetGain(gain)

	default:
		s.respondError(w, errMissingParam, "Unknown jukebox action: "+action)
		return
	}

	s.respondStatus(w, sess)
}

// authenticate accepts a plaintext password (p) or a Subsonic token
// pair (t, s).
func (s *Server) authenticate(r *http.Request) bool {
	q := r.URL.Query()
	username := q.Get("u")
	if username == "" {
		return false
	}
	if p := q.Get("p"); p != "" {
		return s.auth.Authenticate(username, strings.TrimPrefix(p, "enc:"))
	}
	return s.auth.AuthenticateToken(username, q.Get("t"), q.Get("s"))
}

// resolveTracks turns id parameters (paths inside the music folder)
// into tracks. Paths escaping the music folder are rejected.
func (s *Server) resolveTracks(r *http.Request) ([]*playqueue.Track, error) {
	ids := r.URL.Query()["id"]
	tracks := make([]*playqueue.Track, 0, len(ids))
	for _, id := range ids {
		path := id
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.musicDir, path)
		}
		path = filepath.Clean(path)
		if path != s.musicDir && !strings.HasPrefix(path, s.musicDir+string(filepath.Separator)) {
			return nil, &pathError{id}
		}
		t, err := s.tracks.Resolve(path)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

type pathError struct{ id string }

func (e *pathError) Error() string {
	return "track " + e.id + " is outside the music folder"
}

func intParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.URL.Query().Get(name))
}

func (s *Server) statusFor(sess *jukebox.Session) JukeboxStatus {
	return JukeboxStatus{
		CurrentIndex: sess.Queue.Index(),
		Playing:      sess.Queue.Status() == playqueue.StatusPlaying,
		Gain:         s.jukebox.Gain(),
		Position:     s.jukebox.Position(),
	}
}

func (s *Server) respondStatus(w http.ResponseWriter, sess *jukebox.Session) {
	st := s.statusFor(sess)
	s.respond(w, Response{JukeboxStatus: &st})
}

func (s *Server) respondPlaylist(w http.ResponseWriter, sess *jukebox.Session) {
	pl := JukeboxPlaylist{JukeboxStatus: s.statusFor(sess)}
	for _, t := range sess.Queue.Tracks() {
		pl.Entry = append(pl.Entry, Entry{
			Id:       t.Id,
			Title:    t.Title,
			Artist:   t.Artist,
			Album:    t.Album,
			Duration: t.Duration,
			Size:     t.Size,
		})
	}
	s.respond(w, Response{JukeboxPlaylist: &pl})
}

func (s *Server) respond(w http.ResponseWriter, resp Response) {
	resp.Status = "ok"
	if resp.Error != nil {
		resp.Status = "failed"
	}
	resp.Version = apiVersion
	resp.Type = "jukeboxd"

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope{Response: resp}); err != nil {
		s.logger.PrintError("api: encode response", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.logger.Printf("api: error %d: %s", code, message)
	s.respond(w, Response{Error: &Error{Code: code, Message: message}})
}
