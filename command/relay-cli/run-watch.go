// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/relayd/util"
)

const timeFormat = "2006-01-02 15:04:05"

func runWatch(c *cli.Context) error {

	count := c.Int("count")
	if count < 0 {
		return ErrInvalidCount
	}
	raw := c.Bool("json")
	colour := func(code string, text string) string {
		if c.Bool("no-colour") {
			return text
		}
		return util.Colour(code, text)
	}

	conn, err := connectFromContext(c)
	if nil != err {
		return err
	}
	defer conn.Close()

	w := c.App.Writer

	for n := 0; 0 == count || n < count; n += 1 {
		message, line, err := conn.next(time.Time{})
		if io.EOF == err {
			if c.GlobalBool("verbose") {
				fmt.Fprintf(c.App.ErrWriter, "connection closed\n")
			}
			return nil
		}
		if nil != err {
			return err
		}

		if raw {
			fmt.Fprintf(w, "%s\n", line)
			continue
		}

		now := colour(util.CoDim, time.Now().Format(timeFormat))
		if message.Ping {
			fmt.Fprintf(w, "%s  %s\n", now, colour(util.CoDim, "ping"))
			continue
		}
		fmt.Fprintf(w, "%s  target: %s  challenge: %s\n",
			now,
			colour(util.CoGreen, message.Parameters.MiningTarget),
			colour(util.CoCyan, message.Parameters.ChallengeNumber),
		)
	}
	return nil
}
