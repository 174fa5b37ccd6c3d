// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

const (
	defaultConnect = "127.0.0.1:3333"
	defaultTimeout = 5 * time.Second
)

func main() {
	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "relay-cli"
	app.Usage = "downstream client for relayd"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: defaultConnect,
			Usage: " relayd listen address `HOST:PORT`",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Value: defaultTimeout,
			Usage: " connection timeout `DURATION`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "snapshot",
			Usage:     "print the current parameters sent on connection",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.DurationFlag{
					Name:  "wait, w",
					Value: 2 * time.Second,
					Usage: " time to wait for the first message `DURATION`",
				},
			},
			Action: runSnapshot,
		},
		{
			Name:      "watch",
			Usage:     "print every message until the connection closes",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "count, n",
					Value: 0,
					Usage: " stop after `COUNT` messages, zero is unlimited",
				},
				cli.BoolFlag{
					Name:  "json, j",
					Usage: " print the raw JSON lines",
				},
				cli.BoolFlag{
					Name:  "no-colour",
					Usage: " plain text output",
				},
			},
			Action: runWatch,
		},
		{
			Name:      "stress",
			Usage:     "open many short lived connections against relayd",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "clients, n",
					Value: 200,
					Usage: " concurrent clients `COUNT`",
				},
				cli.IntFlag{
					Name:  "connections, r",
					Value: 20,
					Usage: " maximum connections per client `COUNT`",
				},
				cli.DurationFlag{
					Name:  "hold, d",
					Value: time.Second,
					Usage: " maximum time a connection is held `DURATION`",
				},
			},
			Action: runStress,
		},
		{
			Name:  "version",
			Usage: "display program version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	return app
}
