// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/relayd/background"
	"github.com/bitmark-inc/relayd/metrics"
)

const reaperQueueSize = 1000

// Reaper - removes finished sessions from the registry
type Reaper struct {
	sync.Mutex
	log      *logger.L
	registry *Registry
	metrics  *metrics.Metrics
	queue    chan uint64
	stopped  bool
}

// NewReaper - create the reaper, start it as a background process
func NewReaper(log *logger.L, registry *Registry, m *metrics.Metrics) *Reaper {
	return &Reaper{
		log:      log,
		registry: registry,
		metrics:  m,
		queue:    make(chan uint64, reaperQueueSize),
	}
}

var _ background.Process = (*Reaper)(nil)

// Reap - called once by a session when its loop exits
//
// when the reaper has stopped or its queue is full the session is
// removed directly
func (r *Reaper) Reap(id uint64) {
	r.Lock()
	defer r.Unlock()

	if r.stopped {
		r.remove(id)
		return
	}

	select {
	case r.queue <- id:
	default:
		r.remove(id)
	}
}

// Run - remove each reported session
func (r *Reaper) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.log

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case id := <-r.queue:
			r.removeQueued(id)
		}
	}

	// no id can be queued after this
	r.Lock()
	r.stopped = true
	r.Unlock()

	for {
		select {
		case id := <-r.queue:
			r.removeQueued(id)
		default:
			log.Info("stopped")
			return
		}
	}
}

// serialised with direct removals so the gauge follows the last one
func (r *Reaper) removeQueued(id uint64) {
	r.Lock()
	defer r.Unlock()
	r.remove(id)
}

func (r *Reaper) remove(id uint64) {
	if !r.registry.Unregister(id) {
		r.log.Warnf("session %d was not registered", id)
		return
	}
	count := r.registry.Count()
	r.metrics.Sessions.Set(float64(count))
	r.log.Infof("session %d removed (%d sessions)", id, count)
}
