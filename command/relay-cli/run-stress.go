// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli"
)

// totals printed when every client has finished
type stressTotals struct {
	Connections uint64 `json:"connections"`
	Failures    uint64 `json:"failures"`
	BytesSent   uint64 `json:"bytesSent"`
	BytesRead   uint64 `json:"bytesRead"`
	Writes      uint64 `json:"writes"`
}

type stress struct {
	address     string
	timeout     time.Duration
	connections int
	hold        time.Duration

	connected atomic.Uint64
	failed    atomic.Uint64
	sent      atomic.Uint64
	read      atomic.Uint64
	writes    atomic.Uint64
}

// clients connect repeatedly, some write junk which relayd must
// discard, all read whatever arrives then close or abandon the socket
func runStress(c *cli.Context) error {

	clients := c.Int("clients")
	connections := c.Int("connections")
	if clients < 0 || connections < 0 {
		return ErrInvalidCount
	}

	s := &stress{
		address:     c.GlobalString("connect"),
		timeout:     c.GlobalDuration("timeout"),
		connections: connections,
		hold:        c.Duration("hold"),
	}

	var wg sync.WaitGroup
	for i := 0; i < clients; i += 1 {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			s.client(rand.New(rand.NewSource(seed)))
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()

	return printJson(c.App.Writer, s.totals())
}

func (s *stress) client(r *rand.Rand) {
	n := 0
	if s.connections > 0 {
		n = r.Intn(s.connections + 1)
	}

	abandoned := []*connection{}
	defer func() {
		for _, conn := range abandoned {
			conn.Close()
		}
	}()

	for i := 0; i < n; i += 1 {
		conn, err := dial(s.address, s.timeout)
		if nil != err {
			s.failed.Add(1)
			continue
		}
		s.connected.Add(1)

		s.pause(r)

		if r.Float64() < 0.2 {
			for j := r.Intn(100); j > 0; j -= 1 {
				junk := bytes.Repeat([]byte("foo"), r.Intn(10))
				junk = append(junk, '\n')
				if _, err := conn.conn.Write(junk); nil != err {
					break
				}
				s.sent.Add(uint64(len(junk)))
				s.writes.Add(1)
			}
		}

		buffer := make([]byte, 65535)
		for {
			_ = conn.conn.SetReadDeadline(time.Now().Add(10 * time.Millisecond))
			k, err := conn.conn.Read(buffer)
			s.read.Add(uint64(k))
			if nil != err || r.Float64() < 0.5 {
				break
			}
		}

		s.pause(r)

		if r.Float64() < 0.8 {
			conn.Close()
		} else {
			abandoned = append(abandoned, conn)
		}
	}
}

func (s *stress) pause(r *rand.Rand) {
	if s.hold > 0 {
		time.Sleep(time.Duration(r.Int63n(int64(s.hold))))
	}
}

func (s *stress) totals() stressTotals {
	return stressTotals{
		Connections: s.connected.Load(),
		Failures:    s.failed.Load(),
		BytesSent:   s.sent.Load(),
		BytesRead:   s.read.Load(),
		Writes:      s.writes.Load(),
	}
}
