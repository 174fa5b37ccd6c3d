// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package broadcast

import (
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/jonboulle/clockwork"

	"github.com/bitmark-inc/relayd/background"
)

// KeepaliveInterval - time between pings
const KeepaliveInterval = 30 * time.Second

// Pinger - anything that can ping all sessions
type Pinger interface {
	Ping() int
}

type keepalive struct {
	log      *logger.L
	pinger   Pinger
	clock    clockwork.Clock
	interval time.Duration
}

// NewKeepalive - background process pinging on start and then every
// interval
func NewKeepalive(log *logger.L, pinger Pinger, clock clockwork.Clock, interval time.Duration) background.Process {
	log.Info("initialising…")
	return &keepalive{
		log:      log,
		pinger:   pinger,
		clock:    clock,
		interval: interval,
	}
}

func (k *keepalive) Run(args interface{}, shutdown <-chan struct{}) {
	log := k.log

	log.Info("starting…")

	// once at start then every interval
	k.pinger.Ping()

	ticker := k.clock.NewTicker(k.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.Chan():
			k.pinger.Ping()
		}
	}

	log.Info("stopped")
}
