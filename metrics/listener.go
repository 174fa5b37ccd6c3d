// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitmark-inc/relayd/background"
)

// Path - where the collectors are served
const Path = "/metrics"

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Listener - HTTP endpoint for a prometheus scraper
type Listener struct {
	log      *logger.L
	listener net.Listener
	server   *http.Server
}

var _ background.Process = (*Listener)(nil)

// NewListener - bind address and serve reg on Path
func NewListener(log *logger.L, address string, reg *prometheus.Registry) (*Listener, error) {
	listener, err := net.Listen("tcp", address)
	if nil != err {
		return nil, err
	}
	log.Infof("listening on: %s", listener.Addr())

	mux := http.NewServeMux()
	mux.Handle(Path, Handler(reg))

	return &Listener{
		log:      log,
		listener: listener,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// Addr - the bound address
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Run - serve until shutdown
func (l *Listener) Run(args interface{}, shutdown <-chan struct{}) {
	log := l.log

	log.Info("starting…")

	served := make(chan struct{})
	go func() {
		defer close(served)
		err := l.server.Serve(l.listener)
		if nil != err && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("serve error: %s", err)
		}
	}()

	select {
	case <-shutdown:
	case <-served:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := l.server.Shutdown(ctx); nil != err {
		log.Warnf("shutdown error: %s", err)
	}
	<-served

	log.Info("stopped")
}
