// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"net"
	"time"

	"github.com/urfave/cli"
)

// the snapshot is only sent when relayd already holds both values so
// a ping or silence means there is nothing to show
func runSnapshot(c *cli.Context) error {

	conn, err := connectFromContext(c)
	if nil != err {
		return err
	}
	defer conn.Close()

	message, _, err := conn.next(time.Now().Add(c.Duration("wait")))
	if nil != err {
		if e, ok := err.(net.Error); ok && e.Timeout() {
			return ErrNoSnapshot
		}
		return err
	}
	if nil == message.Parameters {
		return ErrNoSnapshot
	}

	return printJson(c.App.Writer, message.Parameters)
}
