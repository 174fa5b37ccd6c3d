// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package broadcast_test

import (
	"sync"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/relayd/broadcast"
	"github.com/bitmark-inc/relayd/metrics"
	"github.com/bitmark-inc/relayd/parameters"
	"github.com/bitmark-inc/relayd/session"
)

const (
	parametersLine = "{\"miningTarget\":\"0xAA\",\"challengeNumber\":\"0xBB\"}\n"
	pingLine       = "{\"ping\":\"ping\"}\n"
)

type testMirror struct {
	sync.Mutex
	kinds []string
	data  []string
}

func (m *testMirror) Publish(kind string, data []byte) {
	m.Lock()
	defer m.Unlock()
	m.kinds = append(m.kinds, kind)
	m.data = append(m.data, string(data))
}

func newBroadcaster(mirrors ...broadcast.Mirror) (*broadcast.Broadcaster, *session.Registry, *metrics.Metrics) {
	registry := session.NewRegistry()
	m := metrics.New(prometheus.NewRegistry())
	return broadcast.New(logger.New("broadcast"), registry, m, mirrors...), registry, m
}

func TestBroadcastToAllSessions(t *testing.T) {
	b, registry, m := newBroadcaster()

	queues := make([]chan []byte, 3)
	for i := range queues {
		queues[i] = make(chan []byte, 2)
		registry.Register(uint64(i), queues[i])
	}

	n := b.Broadcast(parameters.Pair{Target: "0xAA", Challenge: "0xBB"})
	assert.Equal(t, 3, n, "sessions reached")

	for i, q := range queues {
		assert.Len(t, q, 1, "queue %d", i)
		assert.Equal(t, parametersLine, string(<-q), "queue %d message", i)
	}
	assert.Equal(t, float64(3), testutil.ToFloat64(m.Broadcasts.WithLabelValues(metrics.KindParameters)), "broadcast count")
}

func TestBroadcastFullQueueDoesNotBlock(t *testing.T) {
	b, registry, m := newBroadcaster()

	const n = 5
	queues := make([]chan []byte, n)
	for i := range queues {
		queues[i] = make(chan []byte, 1)
		registry.Register(uint64(i), queues[i])
	}

	// fill session 2
	queues[2] <- []byte(pingLine)

	reached := b.Broadcast(parameters.Pair{Target: "0xAA", Challenge: "0xBB"})
	assert.Equal(t, n-1, reached, "sessions reached")

	for i, q := range queues {
		message := string(<-q)
		if 2 == i {
			assert.Equal(t, pingLine, message, "full queue was modified")
		} else {
			assert.Equal(t, parametersLine, message, "queue %d message", i)
		}
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Dropped.WithLabelValues(metrics.KindParameters)), "dropped count")
}

func TestBroadcastIncompletePair(t *testing.T) {
	mirror := &testMirror{}
	b, registry, _ := newBroadcaster(mirror)

	q := make(chan []byte, 1)
	registry.Register(1, q)

	assert.Equal(t, 0, b.Broadcast(parameters.Pair{Challenge: "0xCC"}), "incomplete pair sent")
	assert.Equal(t, 0, b.Broadcast(parameters.Pair{Target: "0xAA"}), "incomplete pair sent")
	assert.Empty(t, q, "queue received incomplete pair")
	assert.Empty(t, mirror.kinds, "mirror received incomplete pair")
}

func TestBroadcastUnregisteredSession(t *testing.T) {
	b, registry, _ := newBroadcaster()

	q := make(chan []byte, 1)
	registry.Register(7, q)
	registry.Unregister(7)

	assert.Equal(t, 0, b.Broadcast(parameters.Pair{Target: "0xAA", Challenge: "0xBB"}), "sessions reached")
	assert.Equal(t, 0, b.Ping(), "sessions pinged")
	assert.Empty(t, q, "unregistered session received a message")
}

func TestBroadcastMirror(t *testing.T) {
	mirror := &testMirror{}
	b, _, _ := newBroadcaster(mirror)

	// mirrors receive updates even without sessions
	b.Broadcast(parameters.Pair{Target: "0xAA", Challenge: "0xBB"})
	b.Ping()

	assert.Equal(t, []string{metrics.KindParameters}, mirror.kinds, "mirror kinds")
	assert.Equal(t, []string{parametersLine[:len(parametersLine)-1]}, mirror.data, "mirror data")
}

func TestPing(t *testing.T) {
	b, registry, m := newBroadcaster()

	q1 := make(chan []byte, 1)
	q2 := make(chan []byte, 1)
	registry.Register(1, q1)
	registry.Register(2, q2)

	assert.Equal(t, 2, b.Ping(), "sessions pinged")
	assert.Equal(t, pingLine, string(<-q1), "first ping")
	assert.Equal(t, pingLine, string(<-q2), "second ping")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Broadcasts.WithLabelValues(metrics.KindPing)), "ping count")
}

func TestBroadcastOrderPerSession(t *testing.T) {
	b, registry, _ := newBroadcaster()

	q := make(chan []byte, 10)
	registry.Register(1, q)

	b.Broadcast(parameters.Pair{Target: "0xAA", Challenge: "0xBB"})
	b.Ping()
	b.Broadcast(parameters.Pair{Target: "0xAA", Challenge: "0xCC"})

	assert.Equal(t, parametersLine, string(<-q), "first")
	assert.Equal(t, pingLine, string(<-q), "second")
	assert.Equal(t, "{\"miningTarget\":\"0xAA\",\"challengeNumber\":\"0xCC\"}\n", string(<-q), "third")
}
