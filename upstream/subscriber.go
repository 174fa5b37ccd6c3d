// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"context"

	"github.com/bitmark-inc/logger"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/bitmark-inc/relayd/background"
	"github.com/bitmark-inc/relayd/fault"
	"github.com/bitmark-inc/relayd/metrics"
	"github.com/bitmark-inc/relayd/parameters"
)

// Subscriber - follow Mint() events on a persistent stream
//
// a broken stream is discarded and redialled after ReconnectDelay,
// forever
type Subscriber struct {
	log         *logger.L
	dialer      Dialer
	store       *parameters.Store
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	clock       clockwork.Clock
}

var _ background.Process = (*Subscriber)(nil)

// NewSubscriber - create the subscriber
func NewSubscriber(log *logger.L, dialer Dialer, store *parameters.Store, broadcaster Broadcaster, m *metrics.Metrics, clock clockwork.Clock) *Subscriber {
	log.Info("initialising…")
	return &Subscriber{
		log:         log,
		dialer:      dialer,
		store:       store,
		broadcaster: broadcaster,
		metrics:     m,
		clock:       clock,
	}
}

// Run - connect, read until failure, wait, repeat
func (s *Subscriber) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log

	log.Info("starting…")

loop:
	for {
		s.connection(shutdown)

		select {
		case <-shutdown:
			break loop
		case <-s.clock.After(ReconnectDelay):
		}
	}

	log.Info("stopped")
}

// one connection from dial to failure
func (s *Subscriber) connection(shutdown <-chan struct{}) {
	log := s.log

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	stream, err := s.dialer.Dial(ctx)
	if nil != err {
		log.Warnf("dial error: %s", err)
		s.metrics.UpstreamErrors.WithLabelValues(metrics.SourceSubscriber).Inc()
		return
	}
	defer stream.Close()

	// closing the stream unblocks a pending read
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-shutdown:
			stream.Close()
		case <-done:
		}
	}()

	log.Info("connected")
	s.metrics.StreamConnects.Inc()

	if err := stream.WriteJSON(subscribeRequest()); nil != err {
		log.Warnf("subscribe error: %s", err)
		s.metrics.UpstreamErrors.WithLabelValues(metrics.SourceSubscriber).Inc()
		return
	}

	for {
		_, message, err := stream.ReadMessage()
		if nil != err {
			if _, ok := err.(*websocket.CloseError); ok {
				log.Infof("closed: %s", err)
			} else {
				log.Warnf("read error: %s", err)
				s.metrics.UpstreamErrors.WithLabelValues(metrics.SourceSubscriber).Inc()
			}
			return
		}
		s.Handle(message)
	}
}

// Handle - apply one message from the stream
//
// returns true if the stored pair changed
func (s *Subscriber) Handle(message []byte) bool {
	log := s.log

	challenge, err := ParseEvent(message)
	if fault.NotEventNotification == err {
		log.Debugf("ignored: %s", message)
		return false
	}
	if nil != err {
		log.Warnf("event error: %s", err)
		s.metrics.UpstreamErrors.WithLabelValues(metrics.SourceSubscriber).Inc()
		return false
	}

	pair, changed := s.store.ReplaceChallengeAndPublish(challenge, func(pair parameters.Pair) {
		log.Infof("changed: %s", pair)
		s.metrics.UpstreamUpdates.WithLabelValues(metrics.SourceSubscriber).Inc()
		s.broadcaster.Broadcast(pair)
	})
	if !changed {
		log.Debugf("unchanged: %s", pair)
	}
	return changed
}
