// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - mirror parameter updates to ZeroMQ subscribers
//
// each update is a two part message: kind, JSON
package publish

import (
	"strings"
	"sync"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/relayd/util"
)

// Configuration - a block of configuration data
type Configuration struct {
	Broadcast []string `gluamapper:"broadcast" json:"broadcast" toml:"broadcast" yaml:"broadcast"`
}

// Publisher - PUB sockets bound to every broadcast address
type Publisher struct {
	sync.Mutex
	log     *logger.L
	socket4 *zmq.Socket // IPv4 traffic
	socket6 *zmq.Socket // IPv6 traffic
}

// New - bind all addresses
//
// returns nil without error if no address is configured
func New(log *logger.L, configuration *Configuration) (*Publisher, error) {
	if nil == configuration || 0 == len(configuration.Broadcast) {
		log.Info("disabled")
		return nil, nil
	}

	p := &Publisher{
		log: log,
	}

	for i, address := range configuration.Broadcast {
		canonical, err := util.CanonicalIPandPort(address)
		if nil != err {
			log.Errorf("invalid broadcast[%d]: %q  error: %s", i, address, err)
			p.Close()
			return nil, err
		}

		v6 := strings.HasPrefix(canonical, "[")
		socket, err := p.socket(v6)
		if nil != err {
			log.Errorf("cannot create socket  error: %s", err)
			p.Close()
			return nil, err
		}

		bindTo := "tcp://" + canonical
		if err := socket.Bind(bindTo); nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, bindTo, err)
			p.Close()
			return nil, err
		}
		log.Infof("bind[%d]: %q  IPv6: %v", i, bindTo, v6)
	}

	return p, nil
}

// one socket per address family
func (p *Publisher) socket(v6 bool) (*zmq.Socket, error) {
	if v6 && nil != p.socket6 {
		return p.socket6, nil
	}
	if !v6 && nil != p.socket4 {
		return p.socket4, nil
	}

	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		return nil, err
	}
	socket.SetLinger(0)
	if v6 {
		if err := socket.SetIpv6(true); nil != err {
			socket.Close()
			return nil, err
		}
		p.socket6 = socket
	} else {
		p.socket4 = socket
	}
	return socket, nil
}

// Publish - send without blocking, a message is lost if a subscriber
// is slow
func (p *Publisher) Publish(kind string, data []byte) {
	p.Lock()
	defer p.Unlock()

	for _, socket := range []*zmq.Socket{p.socket4, p.socket6} {
		if nil == socket {
			continue
		}
		if _, err := socket.SendMessageDontwait(kind, data); nil != err {
			p.log.Warnf("publish %s error: %s", kind, err)
		}
	}
}

// Close - release the sockets
func (p *Publisher) Close() {
	p.Lock()
	defer p.Unlock()

	if nil != p.socket4 {
		p.socket4.Close()
		p.socket4 = nil
	}
	if nil != p.socket6 {
		p.socket6.Close()
		p.socket6 = nil
	}
	p.log.Info("closed")
}
