// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run a set of long-lived processes until stopped
package background

import (
	"sync"
)

// Process - a long running task
//
// Run must return promptly once shutdown is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle for a started set of processes
type T struct {
	sync.Mutex
	shutdown chan struct{}
	finished []chan struct{}
	stopped  bool
}

// Start - start up a set of background processes
// all processes receive the same args
func Start(processes Processes, args interface{}) *T {

	register := &T{
		shutdown: make(chan struct{}),
		finished: make([]chan struct{}, len(processes)),
	}

	for i, p := range processes {
		finished := make(chan struct{})
		register.finished[i] = finished
		go func(p Process) {
			defer close(finished)
			p.Run(args, register.shutdown)
		}(p)
	}
	return register
}

// Stop - signal all processes to shutdown and wait for them to finish
// calling Stop more than once is harmless
func (t *T) Stop() {
	t.Lock()
	defer t.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true

	close(t.shutdown)

	// wait in reverse start order
	for i := len(t.finished) - 1; i >= 0; i -= 1 {
		<-t.finished[i]
	}
}
