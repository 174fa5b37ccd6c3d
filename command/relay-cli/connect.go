// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/relayd/protocol"
)

// a downstream connection reading one message per line
type connection struct {
	conn   net.Conn
	reader *bufio.Reader
}

func dial(address string, timeout time.Duration) (*connection, error) {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if nil != err {
		return nil, err
	}
	return &connection{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// connect using the global flags
func connectFromContext(c *cli.Context) (*connection, error) {
	address := c.GlobalString("connect")
	if c.GlobalBool("verbose") {
		fmt.Fprintf(c.App.ErrWriter, "connect: %s\n", address)
	}
	return dial(address, c.GlobalDuration("timeout"))
}

// next - read one line, a zero deadline waits forever
//
// the raw line is returned without its terminator
func (c *connection) next(deadline time.Time) (protocol.Message, []byte, error) {
	if err := c.conn.SetReadDeadline(deadline); nil != err {
		return protocol.Message{}, nil, err
	}

	line, err := c.reader.ReadBytes(protocol.Terminator)
	if nil != err {
		if io.EOF == err && len(line) > 0 {
			err = io.ErrUnexpectedEOF
		}
		return protocol.Message{}, nil, err
	}
	line = line[:len(line)-1]

	message, err := protocol.Decode(line)
	return message, line, err
}

func (c *connection) Close() error {
	return c.conn.Close()
}
