// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package parameters

import (
	"sync"
)

// Store - holds the latest pair, no history is kept
type Store struct {
	sync.Mutex
	current Pair

	// held from a write until its publication has finished
	publishing sync.Mutex
}

// Publish - receives a changed pair before any later update can be
// stored, must not block
type Publish func(Pair)

// NewStore - create an empty store
func NewStore() *Store {
	return &Store{}
}

// Read - snapshot of the current pair
func (s *Store) Read() Pair {
	s.Lock()
	defer s.Unlock()
	return s.current
}

// CompareAndUpdate - overwrite the stored pair and report whether
// any field differed from the previous value
func (s *Store) CompareAndUpdate(pair Pair) bool {
	s.Lock()
	defer s.Unlock()

	changed := s.current != pair
	s.current = pair
	return changed
}

// ReplaceChallenge - keep the stored target, overwrite the challenge
// and return the resulting pair along with the changed flag
func (s *Store) ReplaceChallenge(challenge string) (Pair, bool) {
	s.Lock()
	defer s.Unlock()

	pair := Pair{
		Target:    s.current.Target,
		Challenge: challenge,
	}
	changed := s.current != pair
	s.current = pair
	return pair, changed
}

// UpdateAndPublish - CompareAndUpdate then publish the pair if it
// changed
//
// publications happen in the same order as the writes so the last
// pair published is always the stored pair
func (s *Store) UpdateAndPublish(pair Pair, publish Publish) bool {
	s.publishing.Lock()
	defer s.publishing.Unlock()

	if !s.CompareAndUpdate(pair) {
		return false
	}
	publish(pair)
	return true
}

// ReplaceChallengeAndPublish - ReplaceChallenge then publish the
// resulting pair if it changed, ordered as UpdateAndPublish
func (s *Store) ReplaceChallengeAndPublish(challenge string, publish Publish) (Pair, bool) {
	s.publishing.Lock()
	defer s.publishing.Unlock()

	pair, changed := s.ReplaceChallenge(challenge)
	if changed {
		publish(pair)
	}
	return pair, changed
}
