// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"sort"
	"sync"
)

// Entry - one registered session as seen by a broadcast
type Entry struct {
	ID    uint64
	Queue chan<- []byte
}

// Registry - map of session id to its outbound queue
type Registry struct {
	sync.RWMutex
	sessions map[uint64]chan<- []byte
}

// NewRegistry - create an empty registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uint64]chan<- []byte),
	}
}

// Register - add a session
func (r *Registry) Register(id uint64, queue chan<- []byte) {
	r.Lock()
	r.sessions[id] = queue
	r.Unlock()
}

// Unregister - remove a session, absent ids are ignored
// returns true if the session was present
func (r *Registry) Unregister(id uint64) bool {
	r.Lock()
	defer r.Unlock()

	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Snapshot - copy of all entries ordered by id
//
// the copy allows a broadcast to proceed without holding the lock;
// a session removed after the snapshot simply misses that message
func (r *Registry) Snapshot() []Entry {
	r.RLock()
	entries := make([]Entry, 0, len(r.sessions))
	for id, queue := range r.sessions {
		entries = append(entries, Entry{ID: id, Queue: queue})
	}
	r.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// Count - number of registered sessions
func (r *Registry) Count() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.sessions)
}
