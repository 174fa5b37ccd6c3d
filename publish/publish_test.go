// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish_test

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/relayd/fault"
	"github.com/bitmark-inc/relayd/publish"
)

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "listen")
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestDisabled(t *testing.T) {
	p, err := publish.New(logger.New("publish"), &publish.Configuration{})
	assert.NoError(t, err, "empty configuration")
	assert.Nil(t, p, "publisher without addresses")

	p, err = publish.New(logger.New("publish"), nil)
	assert.NoError(t, err, "nil configuration")
	assert.Nil(t, p, "publisher without configuration")
}

func TestInvalidAddress(t *testing.T) {
	p, err := publish.New(logger.New("publish"), &publish.Configuration{
		Broadcast: []string{"localhost:2140"},
	})
	assert.Equal(t, fault.InvalidIPAddress, err, "error")
	assert.Nil(t, p, "publisher")
}

func TestPublish(t *testing.T) {
	port := freePort(t)

	p, err := publish.New(logger.New("publish"), &publish.Configuration{
		Broadcast: []string{fmt.Sprintf("127.0.0.1:%d", port)},
	})
	require.NoError(t, err, "new publisher")
	require.NotNil(t, p, "publisher")
	defer p.Close()

	sub, err := zmq.NewSocket(zmq.SUB)
	require.NoError(t, err, "sub socket")
	defer sub.Close()
	require.NoError(t, sub.SetSubscribe(""), "subscribe")
	require.NoError(t, sub.SetRcvtimeo(50*time.Millisecond), "receive timeout")
	require.NoError(t, sub.Connect(fmt.Sprintf("tcp://127.0.0.1:%d", port)), "connect")

	data := []byte(`{"miningTarget":"0xAA","challengeNumber":"0xBB"}`)

	// a new subscriber misses messages until its connection is up
	var parts [][]byte
	for i := 0; i < 100 && 0 == len(parts); i += 1 {
		p.Publish("parameters", data)
		parts, _ = sub.RecvMessageBytes(0)
	}

	require.Len(t, parts, 2, "message parts")
	assert.Equal(t, "parameters", string(parts[0]), "kind")
	assert.Equal(t, data, parts[1], "data")
}
