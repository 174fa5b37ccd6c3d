// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"net"
	"time"

	"github.com/bitmark-inc/logger"
)

// loop timing
const (
	pollInterval = 1 * time.Second       // wait on the queue before probing
	probeTimeout = 10 * time.Millisecond // read deadline of a liveness probe
	writeTimeout = 10 * time.Second      // a client slower than this is dead
	probeBuffer  = 512                   // client bytes are read and discarded
	QueueSize    = 64                    // messages buffered per session
)

// Remover - receives the id of a finished session
type Remover interface {
	Reap(id uint64)
}

// Session - one downstream connection
type Session struct {
	log     *logger.L
	id      uint64
	conn    net.Conn
	queue   <-chan []byte
	initial []byte
	remover Remover

	poll         time.Duration
	probe        time.Duration
	writeTimeout time.Duration
	buffer       []byte
}

// New - create a session for an accepted connection
//
// initial is the complete snapshot line or nil if no valid
// parameters are known yet
func New(log *logger.L, id uint64, conn net.Conn, queue <-chan []byte, initial []byte, remover Remover) *Session {
	return &Session{
		log:          log,
		id:           id,
		conn:         conn,
		queue:        queue,
		initial:      initial,
		remover:      remover,
		poll:         pollInterval,
		probe:        probeTimeout,
		writeTimeout: writeTimeout,
		buffer:       make([]byte, probeBuffer),
	}
}

// ID - the session identifier
func (s *Session) ID() uint64 {
	return s.id
}

// Run - deliver queued messages until the client goes away
func (s *Session) Run() {
	log := s.log
	defer s.finish()

	if nil != s.initial {
		if err := s.write(s.initial); nil != err {
			log.Debugf("session %d: snapshot write error: %s", s.id, err)
			return
		}
	}

	timer := time.NewTimer(s.poll)
	defer timer.Stop()

	for {
		select {
		case message := <-s.queue:
			if err := s.write(message); nil != err {
				log.Debugf("session %d: write error: %s", s.id, err)
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}

		case <-timer.C:
			if !s.alive() {
				return
			}
		}
		timer.Reset(s.poll)
	}
}

func (s *Session) write(message []byte) error {
	err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if nil != err {
		return err
	}
	_, err = s.conn.Write(message)
	return err
}

// alive - short read to find out if the peer has closed
//
// a read timeout means idle but connected, any data is discarded
func (s *Session) alive() bool {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.probe)); nil != err {
		s.log.Debugf("session %d: set deadline error: %s", s.id, err)
		return false
	}

	n, err := s.conn.Read(s.buffer)
	if n > 0 {
		s.log.Tracef("session %d: discarded %d bytes", s.id, n)
	}
	if nil == err {
		return true
	}
	if e, ok := err.(net.Error); ok && e.Timeout() {
		return true
	}
	s.log.Debugf("session %d: read error: %s", s.id, err)
	return false
}

func (s *Session) finish() {
	if err := s.conn.Close(); nil != err {
		s.log.Debugf("session %d: close error: %s", s.id, err)
	}
	s.log.Infof("session %d: disconnected", s.id)
	s.remover.Reap(s.id)
}
