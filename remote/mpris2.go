// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"errors"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/jukeboxd/jukeboxd/logger"
)

// MprisPlayer exposes the jukebox on the session bus as an MPRIS2
// media player, so desktop media keys on the jukebox host work too.
type MprisPlayer struct {
	dbus   *dbus.Conn
	player ControlledPlayer
	logger logger.LoggerInterface
}

func RegisterMprisPlayer(player ControlledPlayer, logger_ logger.LoggerInterface) (mpp *MprisPlayer, err error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return
	}

	mpp = &MprisPlayer{
		dbus:   conn,
		player: player,
		logger: logger_,
	}

	err = conn.ExportAll(mpp, "/org/mpris/MediaPlayer2", "org.mpris.MediaPlayer2.Player")
	if err != nil {
		return
	}

	metadata := map[string]interface{}{
		"mpris:trackid":     "",
		"mpris:length":      int64(0),
		"xesam:album":       "",
		"xesam:albumArtist": "",
		"xesam:artist":      []string{},
		"xesam:composer":    []string{},
		"xesam:genre":       []string{},
		"xesam:title":       "",
		"xesam:trackNumber": int(0),
	}

	var mprisPlayer = map[string]*prop.Prop{
		"CanControl":     {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoNext":      {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPause":       {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanSeek":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoPrevious":  {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Metadata":       {Value: metadata, Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"Volume":         {Value: float64(0.0), Writable: true, Emit: prop.EmitTrue, Callback: mpp.volumeChange},
		"PlaybackStatus": {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
	}

	var mediaPlayer = map[string]*prop.Prop{
		"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Identity":            {Value: "jukeboxd", Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedUriSchemes": {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedMimeTypes":  {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
	}

	props, err := prop.Export(
		conn,
		"/org/mpris/MediaPlayer2",
		map[string]map[string]*prop.Prop{
			"org.mpris.MediaPlayer2":        mediaPlayer,
			"org.mpris.MediaPlayer2.Player": mprisPlayer,
		},
	)
	if err != nil {
		return
	}

	n := &introspect.Node{
		Name: "/org/mpris/MediaPlayer2",
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       "org.mpris.MediaPlayer2.Player",
				Methods:    introspect.Methods(mpp),
				Properties: props.Introspection("org.mpris.MediaPlayer2.Player"),
			},
		},
	}
	err = conn.Export(introspect.NewIntrospectable(n), "/org/mpris/MediaPlayer2", "org.freedesktop.DBus.Introspectable")
	if err != nil {
		return
	}

	// our unique name
	name := "org.mpris.MediaPlayer2.jukeboxd"
	reply, err := conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		err = errors.New("name already owned")
		return
	}

	player.OnSongChange(mpp.OnSongChange)
	return
}

func (m *MprisPlayer) Close() {
	if err := m.dbus.Close(); err != nil {
		m.logger.PrintError("mpp Close", err)
	}
}

// Mandatory functions
func (m *MprisPlayer) Stop() {
	m.player.Stop()
}

func (m *MprisPlayer) Next() {
	m.player.PlayNextTrack()
}

// set paused
func (m *MprisPlayer) Pause() {
	m.player.Pause()
}

// set playing
func (m *MprisPlayer) Play() {
	m.player.Play()
}

func (m *MprisPlayer) PlayPause() {
	m.player.Play()
}

func (m *MprisPlayer) OpenUri(string) {
	// tracks come from the control session's queue, not from URIs
}
func (m *MprisPlayer) Previous() {
	// the jukebox queue only moves forward
}
func (m *MprisPlayer) Seek(int) {
	// seeking goes through the REST surface with an explicit offset
}
func (m *MprisPlayer) Seeked(int) {
}
func (m *MprisPlayer) SetPosition(string, int) {
}

func (m *MprisPlayer) volumeChange(c *prop.Change) *dbus.Error {
	fVol := c.Value.(float64)
	m.player.SetGain(fVol)
	m.logger.Printf("mpris: adjust gain -> %f", fVol)
	return nil
}

// OnSongChange pushes new track metadata out to the bus.
func (m *MprisPlayer) OnSongChange(currentSong TrackInterface) {
	if currentSong == nil || !currentSong.IsValid() {
		return
	}

	metadata := map[string]interface{}{
		"mpris:trackid":     "",
		"mpris:length":      int64(currentSong.GetDuration() * 1000000), // duration in microseconds
		"xesam:album":       "",
		"xesam:albumArtist": "",
		"xesam:artist":      []string{currentSong.GetArtist()},
		"xesam:composer":    []string{},
		"xesam:genre":       []string{},
		"xesam:title":       currentSong.GetTitle(),
		"xesam:trackNumber": 0,
	}

	err := m.dbus.Emit("/org/mpris/MediaPlayer2", "org.freedesktop.DBus.Properties.PropertiesChanged",
		"org.mpris.MediaPlayer2.Player", map[string]map[string]interface{}{
			"Metadata": metadata,
		}, []string{})

	if err != nil {
		m.logger.PrintError("mpris: Emit PropertiesChanged", err)
	}
}
