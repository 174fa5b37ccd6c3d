// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"
	"github.com/jonboulle/clockwork"

	"github.com/bitmark-inc/relayd/background"
	"github.com/bitmark-inc/relayd/broadcast"
	"github.com/bitmark-inc/relayd/metrics"
	"github.com/bitmark-inc/relayd/parameters"
	"github.com/bitmark-inc/relayd/publish"
	"github.com/bitmark-inc/relayd/server"
	"github.com/bitmark-inc/relayd/session"
	"github.com/bitmark-inc/relayd/upstream"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// connection info
	log.Debugf("%s = %q", "ProviderURL", theConfiguration.ProviderURL)
	log.Debugf("%s = %q", "ProviderURLHTTPS", theConfiguration.ProviderURLHTTPS)
	log.Debugf("%s = %q", "Listen", theConfiguration.Listen)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)

	registry := metrics.NewRegistry()
	theMetrics := metrics.New(registry)

	processes := background.Processes{}

	// optional prometheus scrape endpoint
	if "" != theConfiguration.Metrics {
		listener, err := metrics.NewListener(logger.New("metrics"), theConfiguration.Metrics, registry)
		if nil != err {
			log.Criticalf("metrics listen error: %s", err)
			exitwithstatus.Message("metrics listen error: %s", err)
		}
		log.Infof("metrics listening on: %s", listener.Addr())
		processes = append(processes, listener)
	}

	store := parameters.NewStore()
	sessions := session.NewRegistry()
	reaper := session.NewReaper(logger.New("reaper"), sessions, theMetrics)

	// optional zmq mirror of parameter changes
	mirrors := []broadcast.Mirror{}
	publisher, err := publish.New(logger.New("publish"), &theConfiguration.Publishing)
	if nil != err {
		log.Criticalf("publish initialise error: %s", err)
		exitwithstatus.Message("publish initialise error: %s", err)
	}
	if nil != publisher {
		defer publisher.Close()
		mirrors = append(mirrors, publisher)
	}

	broadcaster := broadcast.New(logger.New("broadcast"), sessions, theMetrics, mirrors...)

	fetcher, err := upstream.NewHTTPFetcher(theConfiguration.ProviderURLHTTPS, nil)
	if nil != err {
		log.Criticalf("fetcher initialise error: %s", err)
		exitwithstatus.Message("fetcher initialise error: %s", err)
	}

	dialer, err := upstream.NewWebsocketDialer(logger.New("websocket"), theConfiguration.ProviderURL)
	if nil != err {
		log.Criticalf("dialer initialise error: %s", err)
		exitwithstatus.Message("dialer initialise error: %s", err)
	}

	clock := clockwork.NewRealClock()

	theServer := server.New(logger.New("server"), sessions, store, reaper, theMetrics, theConfiguration.MaximumConnections)
	if err := theServer.Listen(theConfiguration.Listen); nil != err {
		log.Criticalf("listen on: %q  error: %s", theConfiguration.Listen, err)
		exitwithstatus.Message("listen on: %q  error: %s", theConfiguration.Listen, err)
	}
	log.Infof("listening on: %s", theServer.Addr())

	// reaper first so it is the last to stop
	processes = append(background.Processes{reaper}, processes...)
	processes = append(processes,
		upstream.NewPoller(logger.New("poller"), fetcher, store, broadcaster, theMetrics, clock),
		upstream.NewSubscriber(logger.New("subscriber"), dialer, store, broadcaster, theMetrics, clock),
		broadcast.NewKeepalive(logger.New("keepalive"), broadcaster, clock, broadcast.KeepaliveInterval),
		theServer,
	)

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		processes = append(processes, &memstats{
			log:      logger.New("stats"),
			registry: sessions,
		})
	}

	log.Info("start background processes")
	running := background.Start(processes, nil)
	defer running.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
