// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server - accept downstream connections and start a session
// for each one
package server

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/relayd/background"
	"github.com/bitmark-inc/relayd/fault"
	"github.com/bitmark-inc/relayd/metrics"
	"github.com/bitmark-inc/relayd/parameters"
	"github.com/bitmark-inc/relayd/protocol"
	"github.com/bitmark-inc/relayd/session"
	"github.com/bitmark-inc/relayd/util"
)

// accept errors are logged at most this often
const (
	acceptErrorRate  = rate.Limit(10)
	acceptErrorBurst = 1
)

// Server - the acceptor
type Server struct {
	sync.Mutex
	log        *logger.L
	sessionLog *logger.L
	listener   net.Listener
	registry   *session.Registry
	store      *parameters.Store
	remover    session.Remover
	metrics    *metrics.Metrics
	limiter    *rate.Limiter
	maximum    int
	nextID     atomic.Uint64
}

var _ background.Process = (*Server)(nil)

// New - create a server, maximumConnections of zero is unlimited
func New(log *logger.L, registry *session.Registry, store *parameters.Store, remover session.Remover, m *metrics.Metrics, maximumConnections int) *Server {
	log.Info("initialising…")
	return &Server{
		log:        log,
		sessionLog: logger.New("session"),
		registry:   registry,
		store:      store,
		remover:    remover,
		metrics:    m,
		limiter:    rate.NewLimiter(acceptErrorRate, acceptErrorBurst),
		maximum:    maximumConnections,
	}
}

// Listen - bind the listen address
func (s *Server) Listen(address string) error {
	s.Lock()
	defer s.Unlock()

	if nil != s.listener {
		return fault.AlreadyListening
	}

	network, address, err := util.ListenAddress(address)
	if nil != err {
		return err
	}

	listener, err := net.Listen(network, address)
	if nil != err {
		return err
	}
	s.listener = listener
	s.log.Infof("listening on: %s", listener.Addr())
	return nil
}

// Addr - the bound address, nil before Listen
func (s *Server) Addr() net.Addr {
	s.Lock()
	defer s.Unlock()
	if nil == s.listener {
		return nil
	}
	return s.listener.Addr()
}

// Run - accept until shutdown
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log

	log.Info("starting…")

	s.Lock()
	listener := s.listener
	s.Unlock()
	if nil == listener {
		log.Error("not listening")
		return
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-shutdown:
			listener.Close()
		case <-done:
		}
	}()

	for {
		conn, err := listener.Accept()
		if nil != err {
			select {
			case <-shutdown:
				log.Info("stopped")
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				log.Error("listener closed")
				return
			}
			log.Errorf("accept error: %s", err)
			r := s.limiter.Reserve()
			time.Sleep(r.Delay())
			continue
		}
		s.accept(conn)
	}
}

func (s *Server) accept(conn net.Conn) {
	log := s.log

	address := conn.RemoteAddr()
	if nil == address {
		log.Warn("connection without remote address")
		conn.Close()
		return
	}

	if s.maximum > 0 && s.registry.Count() >= s.maximum {
		log.Warnf("reject: %s  error: %s", address, fault.SessionLimitReached)
		s.metrics.SessionsRejected.Inc()
		conn.Close()
		return
	}

	id := s.nextID.Add(1) - 1
	queue := make(chan []byte, session.QueueSize)
	s.registry.Register(id, queue)

	// registered first so no broadcast is missed, the snapshot may
	// then repeat the first queued update
	var initial []byte
	if pair := s.store.Read(); pair.IsValid() {
		initial = protocol.EncodeParameters(pair)
	}

	count := s.registry.Count()
	s.metrics.Sessions.Set(float64(count))
	s.metrics.SessionsTotal.Inc()
	log.Infof("session %d: connection from: %s (%d sessions)", id, address, count)

	go session.New(s.sessionLog, id, conn, queue, initial, s.remover).Run()
}
