// Copyright 2025 The jukeboxd Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/spf13/viper"

	"github.com/jukeboxd/jukeboxd/api"
	"github.com/jukeboxd/jukeboxd/auth"
	"github.com/jukeboxd/jukeboxd/jukebox"
	"github.com/jukeboxd/jukeboxd/logger"
	"github.com/jukeboxd/jukeboxd/pipeline"
	"github.com/jukeboxd/jukeboxd/remote"
	"github.com/jukeboxd/jukeboxd/scrobble"
	"github.com/jukeboxd/jukeboxd/sink"
	"github.com/jukeboxd/jukeboxd/status"
)

var osExit = os.Exit // A variable to allow mocking os.Exit in tests
var headlessMode bool // This can be set to true during tests
var testMode bool     // This can be set to true during tests, too

const DEVELOPMENT = "development"

// Name is the server name reported over REST and MPRIS
var Name string = "jukeboxd"

// Version is the program version; usually set from BuildInfo
var Version string = DEVELOPMENT

func readConfig(configFile *string) error {
	required_properties := []string{"music.folder", "users"}

	if configFile != nil && *configFile != "" {
		// use custom config file
		viper.SetConfigFile(*configFile)
	} else {
		// lookup default dirs
		viper.SetConfigName("jukeboxd")
		viper.SetConfigType("toml")
		viper.AddConfigPath("$HOME/.config/jukeboxd")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("server.listen", ":4533")
	viper.SetDefault("jukebox.backend", "oto")
	viper.SetDefault("jukebox.command", pipeline.DefaultCommand)
	viper.SetDefault("jukebox.gain", sink.DefaultGain)

	// read it
	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("Config file error: %s\n", err)
	}

	// validate
	for _, prop := range required_properties {
		if !viper.IsSet(prop) {
			return fmt.Errorf("Config property %s is required\n", prop)
		}
	}

	return nil
}

// loadUsers builds the user store from the [users] config table:
//
//	[users.alice]
//	password = "..."
//	jukebox = true
func loadUsers() *auth.Store {
	var users []auth.User
	for name := range viper.GetStringMap("users") {
		users = append(users, auth.User{
			Name:     name,
			Password: viper.GetString("users." + name + ".password"),
			Jukebox:  viper.GetBool("users." + name + ".jukebox"),
		})
	}
	return auth.NewStore(users)
}

func sinkFactory(backend string) (sink.Factory, error) {
	switch backend {
	case "oto":
		return sink.NewOto, nil
	case "mpv":
		return sink.NewMpv, nil
	}
	return nil, fmt.Errorf("unknown jukebox backend %q", backend)
}

// return codes:
// 0 - OK
// 1 - generic errors
// 2 - config errors
func main() {
	help := flag.Bool("help", false, "Print usage")
	enableMpris := flag.Bool("mpris", false, "Expose the jukebox over MPRIS2")
	monitor := flag.Bool("monitor", false, "Run the terminal monitor console")
	configFile := flag.String("config", "", "use config `file`")
	version := flag.Bool("version", false, "print the jukeboxd version and exit")

	flag.Parse()
	if *help {
		fmt.Printf("USAGE: %s <args>\n", os.Args[0])
		flag.Usage()
		osExit(0)
	}
	if Version == DEVELOPMENT {
		if bi, ok := debug.ReadBuildInfo(); ok {
			Version = bi.Main.Version
		}
	}
	if *version {
		fmt.Printf("jukeboxd %s\n", Version)
		osExit(0)
	}

	if err := readConfig(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read configuration: %v\n", err)
		osExit(2)
	}

	logger := logger.Init()

	store := loadUsers()
	newSink, err := sinkFactory(viper.GetString("jukebox.backend"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		osExit(2)
	}

	statuses := status.NewRegistry()
	counts := status.NewPlayCounts()
	scrobbler := scrobble.New(
		viper.GetString("lastfm.api-key"),
		viper.GetString("lastfm.api-secret"),
		viper.GetString("lastfm.session-key"),
		logger)

	jb := jukebox.New(jukebox.Config{
		Auth:       store,
		Pipeline:   pipeline.NewCommand(logger),
		Status:     statuses,
		PlayCounts: counts,
		Scrobbler:  scrobbler,
		NewSink:    newSink,
		Command:    viper.GetString("jukebox.command"),
		Logger:     logger,
	})
	jb.SetGain(viper.GetFloat64("jukebox.gain"))

	var mprisPlayer *remote.MprisPlayer
	// mpris2 control is linux only but fails gracefully on other systems
	if *enableMpris {
		mprisPlayer, err = remote.RegisterMprisPlayer(jb, logger)
		if err != nil {
			fmt.Printf("Unable to register MPRIS with DBUS: %s\n", err)
			fmt.Println("Try running without MPRIS")
			osExit(1)
		}
		defer mprisPlayer.Close()
	}

	if testMode {
		fmt.Println("Running in test mode for testing.")
		osExit(0x23420001)
		return
	}

	sessions := jukebox.NewSessions()
	server := api.NewServer(jb, sessions, store,
		viper.GetString("music.folder"), logger)

	listen := viper.GetString("server.listen")
	logger.Printf("listening on %s", listen)

	if headlessMode {
		fmt.Println("Running in headless mode for testing.")
		osExit(0)
		return
	}

	if *monitor {
		go func() {
			if err := http.ListenAndServe(listen, server.Handler()); err != nil {
				logger.PrintError("http server", err)
			}
		}()
		if err := InitMonitor(jb, logger).Run(); err != nil {
			panic(err)
		}
		return
	}

	// headless daemon: pump the log to stderr
	go func() {
		for line := range logger.Prints {
			fmt.Fprintln(os.Stderr, line)
		}
	}()
	if err := http.ListenAndServe(listen, server.Handler()); err != nil {
		fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		osExit(1)
	}
}
