// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRemover struct {
	ids chan uint64
}

func newTestRemover() *testRemover {
	return &testRemover{ids: make(chan uint64, 10)}
}

func (r *testRemover) Reap(id uint64) {
	r.ids <- id
}

func (r *testRemover) wait(t *testing.T) uint64 {
	select {
	case id := <-r.ids:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("session was not reaped")
	}
	return 0
}

func (r *testRemover) none(t *testing.T, d time.Duration) {
	select {
	case id := <-r.ids:
		t.Fatalf("session %d reaped while alive", id)
	case <-time.After(d):
	}
}

// start a session with short timings on one end of a pipe
func startSession(id uint64, initial []byte) (net.Conn, chan []byte, *testRemover) {
	server, client := net.Pipe()
	queue := make(chan []byte, QueueSize)
	remover := newTestRemover()

	s := New(logger.New("session"), id, server, queue, initial, remover)
	s.poll = 20 * time.Millisecond
	s.probe = 5 * time.Millisecond
	s.writeTimeout = 500 * time.Millisecond

	go s.Run()
	return client, queue, remover
}

func readLine(t *testing.T, r *bufio.Reader) string {
	line, err := r.ReadString('\n')
	require.NoError(t, err, "read line")
	return line
}

func TestSessionSnapshotFirst(t *testing.T) {
	snapshot := []byte("{\"miningTarget\":\"0xAA\",\"challengeNumber\":\"0xBB\"}\n")
	client, queue, remover := startSession(4, snapshot)
	defer client.Close()

	queue <- []byte("{\"ping\":\"ping\"}\n")
	queue <- []byte("{\"miningTarget\":\"0xAA\",\"challengeNumber\":\"0xCC\"}\n")

	r := bufio.NewReader(client)
	assert.Equal(t, string(snapshot), readLine(t, r), "first message")
	assert.Equal(t, "{\"ping\":\"ping\"}\n", readLine(t, r), "second message")
	assert.Equal(t, "{\"miningTarget\":\"0xAA\",\"challengeNumber\":\"0xCC\"}\n", readLine(t, r), "third message")

	client.Close()
	assert.Equal(t, uint64(4), remover.wait(t), "reaped id")
}

func TestSessionWithoutSnapshot(t *testing.T) {
	client, queue, remover := startSession(1, nil)

	queue <- []byte("{\"ping\":\"ping\"}\n")

	r := bufio.NewReader(client)
	assert.Equal(t, "{\"ping\":\"ping\"}\n", readLine(t, r), "first message")

	client.Close()
	assert.Equal(t, uint64(1), remover.wait(t), "reaped id")
}

func TestSessionIdleClientStaysConnected(t *testing.T) {
	client, queue, remover := startSession(2, nil)
	defer client.Close()

	// many probe cycles with no traffic in either direction
	remover.none(t, 300*time.Millisecond)

	queue <- []byte("{\"ping\":\"ping\"}\n")
	r := bufio.NewReader(client)
	assert.Equal(t, "{\"ping\":\"ping\"}\n", readLine(t, r), "message after idle period")
}

func TestSessionDiscardsClientData(t *testing.T) {
	client, queue, remover := startSession(3, nil)
	defer client.Close()

	written := make(chan error, 1)
	go func() {
		_, err := client.Write([]byte("hello relay\n"))
		written <- err
	}()

	select {
	case err := <-written:
		assert.NoError(t, err, "client write")
	case <-time.After(2 * time.Second):
		t.Fatal("client data was never read")
	}
	remover.none(t, 100*time.Millisecond)

	queue <- []byte("{\"ping\":\"ping\"}\n")
	r := bufio.NewReader(client)
	assert.Equal(t, "{\"ping\":\"ping\"}\n", readLine(t, r), "message after client data")
}

func TestSessionDetectsDisconnect(t *testing.T) {
	client, _, remover := startSession(9, nil)

	client.Close()
	assert.Equal(t, uint64(9), remover.wait(t), "reaped id")
}

func TestSessionWriteFailure(t *testing.T) {
	snapshot := []byte("{\"miningTarget\":\"0xAA\",\"challengeNumber\":\"0xBB\"}\n")
	client, _, remover := startSession(6, snapshot)

	// nobody reads the snapshot
	assert.Equal(t, uint64(6), remover.wait(t), "reaped id")
	client.Close()
}

func TestSessionOverTCP(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "listen")
	defer listener.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if nil == err {
			accepted <- conn
		}
	}()

	client, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err, "dial")

	var conn net.Conn
	select {
	case conn = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("no connection accepted")
	}

	queue := make(chan []byte, QueueSize)
	remover := newTestRemover()
	s := New(logger.New("session"), 11, conn, queue, nil, remover)
	s.poll = 20 * time.Millisecond
	s.probe = 5 * time.Millisecond
	go s.Run()

	remover.none(t, 150*time.Millisecond)

	queue <- []byte("{\"ping\":\"ping\"}\n")
	r := bufio.NewReader(client)
	assert.Equal(t, "{\"ping\":\"ping\"}\n", readLine(t, r), "message over tcp")

	client.Close()
	assert.Equal(t, uint64(11), remover.wait(t), "reaped id")
}
