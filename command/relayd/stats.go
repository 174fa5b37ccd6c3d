// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/relayd/session"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

type memstats struct {
	log      *logger.L
	registry *session.Registry
}

func (s *memstats) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log

	ticker := time.NewTicker(statsDelay)
	defer ticker.Stop()

	for {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		text, err := json.Marshal(m)
		if nil != err {
			log.Errorf("marshal error: %s", err)
		} else {
			log.Debugf("stats: %s", text)
		}
		a := m.Alloc / mega
		t := m.TotalAlloc / mega
		o := m.Sys / mega
		log.Warnf("allocated: %d M  cumulative: %d M  OS virtual: %d M  goroutines: %d  sessions: %d",
			a, t, o, runtime.NumGoroutine(), s.registry.Count())

		select {
		case <-shutdown:
			return
		case <-ticker.C:
		}
	}
}
