// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/jukeboxd/jukeboxd/jukebox"
	"github.com/jukeboxd/jukeboxd/logger"
	"github.com/jukeboxd/jukeboxd/playqueue"
)

// Monitor is the optional terminal console: transport line on top, the
// bound session's queue in the middle, log tail at the bottom. It is a
// read-mostly view with a few transport keys; clients do the real
// driving over REST.
type Monitor struct {
	app *tview.Application

	transport *tview.TextView
	queueList *tview.List
	logList   *tview.List

	events  chan jukebox.Event
	jukebox *jukebox.Jukebox
	logger  *logger.Logger
}

var _ jukebox.EventConsumer = (*Monitor)(nil)

func InitMonitor(j *jukebox.Jukebox, lg *logger.Logger) *Monitor {
	m := &Monitor{
		events:  make(chan jukebox.Event, 5),
		jukebox: j,
		logger:  lg,
	}

	m.app = tview.NewApplication()

	m.transport = tview.NewTextView().
		SetText(fmt.Sprintf("[::b]%s[::-] v%s stopped", Name, Version)).
		SetTextAlign(tview.AlignLeft).
		SetDynamicColors(true).
		SetScrollable(false)

	m.queueList = tview.NewList().ShowSecondaryText(false)
	m.queueList.SetBorder(true).SetTitle(" queue ")

	m.logList = tview.NewList().ShowSecondaryText(false)
	m.logList.SetBorder(true).SetTitle(" log ")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(m.transport, 1, 0, false).
		AddItem(m.queueList, 0, 2, false).
		AddItem(m.logList, 0, 1, false)

	m.app.SetRoot(flex, true)
	m.app.SetInputCapture(m.handleKey)

	j.RegisterEventConsumer(m)
	return m
}

// SendEvent implements jukebox.EventConsumer. The jukebox must never
// block on its monitor, so a full channel drops the event; the next
// ticker refresh catches the view up.
func (m *Monitor) SendEvent(e jukebox.Event) {
	select {
	case m.events <- e:
	default:
	}
}

func (m *Monitor) Run() error {
	go m.eventLoop()
	return m.app.Run()
}

func (m *Monitor) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q':
		m.app.Stop()
		return nil
	case 'p':
		if m.jukebox.Playing() {
			m.jukebox.Pause()
		} else {
			m.jukebox.Play()
		}
		return nil
	case 'n':
		m.jukebox.PlayNextTrack()
		return nil
	case 'm':
		m.jukebox.SetMute(!m.jukebox.Muted())
		return nil
	case '+':
		m.jukebox.SetGain(m.jukebox.Gain() + 0.05)
		return nil
	case '-':
		m.jukebox.SetGain(m.jukebox.Gain() - 0.05)
		return nil
	}
	return event
}

func (m *Monitor) eventLoop() {
	refresh := time.NewTicker(time.Second)
	defer refresh.Stop()

	for {
		select {
		case msg := <-m.logger.Prints:
			m.app.QueueUpdateDraw(func() {
				line := time.Now().Local().Format("(15:04:05) ") + msg
				m.logList.InsertItem(0, line, "", 0, nil)

				// keep the log tail from growing forever
				for m.logList.GetItemCount() > 100 {
					m.logList.RemoveItem(-1)
				}
			})

		case e := <-m.events:
			m.app.QueueUpdateDraw(func() {
				m.updateTransport(e)
				m.updateQueue()
			})

		case <-refresh.C:
			m.app.QueueUpdateDraw(func() {
				m.refreshTransport()
			})
		}
	}
}

func (m *Monitor) updateTransport(e jukebox.Event) {
	switch e.Type {
	case jukebox.EventPlaying, jukebox.EventUnpaused:
		m.transport.SetText("[green::b]Playing[::-] " + formatTrack(e.Track))
	case jukebox.EventPaused:
		m.transport.SetText("[yellow::b]Paused[::-] " + formatTrack(e.Track))
	case jukebox.EventStopped:
		m.transport.SetText("[red::b]Stopped[::-]")
	}
}

func (m *Monitor) refreshTransport() {
	t := m.jukebox.CurrentTrack()
	if t == nil {
		return
	}
	state := "[yellow::b]Paused[::-]"
	if m.jukebox.Playing() {
		state = "[green::b]Playing[::-]"
	}
	m.transport.SetText(fmt.Sprintf("%s %s  %s / %s  gain %.2f",
		state, formatTrack(t),
		formatDuration(m.jukebox.Position()),
		formatDuration(t.Duration),
		m.jukebox.Gain()))
}

func (m *Monitor) updateQueue() {
	m.queueList.Clear()
	sess := m.jukebox.Session()
	if sess == nil {
		return
	}
	current := sess.Queue.Index()
	for i, t := range sess.Queue.Tracks() {
		marker := "   "
		if i == current {
			marker = " ▶ "
		}
		m.queueList.AddItem(marker+formatTrack(t), "", 0, nil)
	}
}

func formatTrack(t *playqueue.Track) string {
	if !t.IsValid() {
		return ""
	}
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

func formatDuration(secs int) string {
	if secs <= 0 {
		return "--:--"
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
