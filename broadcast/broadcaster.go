// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package broadcast

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/relayd/metrics"
	"github.com/bitmark-inc/relayd/parameters"
	"github.com/bitmark-inc/relayd/protocol"
	"github.com/bitmark-inc/relayd/session"
)

// Mirror - an additional sink for parameter updates
type Mirror interface {
	Publish(kind string, data []byte)
}

// Broadcaster - fan out of messages to all registered sessions
type Broadcaster struct {
	log      *logger.L
	registry *session.Registry
	metrics  *metrics.Metrics
	mirrors  []Mirror
}

// New - create a broadcaster over a registry
func New(log *logger.L, registry *session.Registry, m *metrics.Metrics, mirrors ...Mirror) *Broadcaster {
	return &Broadcaster{
		log:      log,
		registry: registry,
		metrics:  m,
		mirrors:  mirrors,
	}
}

// Broadcast - send a complete pair to every session
//
// returns the number of sessions the message was queued for
func (b *Broadcaster) Broadcast(pair parameters.Pair) int {
	if !pair.IsValid() {
		b.log.Debugf("incomplete pair not sent: %s", pair)
		return 0
	}

	message := protocol.EncodeParameters(pair)
	n := b.fanout(metrics.KindParameters, message)
	b.log.Infof("broadcast: %s  to: %d sessions", pair, n)

	data := message[:len(message)-1]
	for _, m := range b.mirrors {
		m.Publish(metrics.KindParameters, data)
	}
	return n
}

// Ping - send the liveness message to every session
func (b *Broadcaster) Ping() int {
	n := b.fanout(metrics.KindPing, protocol.EncodePing())
	b.log.Debugf("ping to: %d sessions", n)
	return n
}

// the message is shared by all queues and must not be modified
func (b *Broadcaster) fanout(kind string, message []byte) int {
	n := 0
	for _, entry := range b.registry.Snapshot() {
		select {
		case entry.Queue <- message:
			n += 1
		default:
			b.log.Debugf("session %d: queue full, %s dropped", entry.ID, kind)
			b.metrics.Dropped.WithLabelValues(kind).Inc()
		}
	}
	b.metrics.Broadcasts.WithLabelValues(kind).Add(float64(n))
	return n
}
