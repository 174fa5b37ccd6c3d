// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/gorilla/websocket"

	"github.com/bitmark-inc/relayd/fault"
)

const pongTimeout = time.Second

// Stream - a connected event source
type Stream interface {
	WriteJSON(v interface{}) error
	ReadMessage() (messageType int, data []byte, err error)
	Close() error
}

// Dialer - creates a new Stream for each connection attempt
type Dialer interface {
	Dial(ctx context.Context) (Stream, error)
}

// WebsocketDialer - connect to the provider's websocket endpoint
type WebsocketDialer struct {
	log    *logger.L
	url    string
	dialer *websocket.Dialer
}

// NewWebsocketDialer - create a dialer for a ws:// or wss:// URL
func NewWebsocketDialer(log *logger.L, url string) (*WebsocketDialer, error) {
	if "" == url {
		return nil, fault.MissingStreamURL
	}

	return &WebsocketDialer{
		log: log,
		url: url,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: DialTimeout,
		},
	}, nil
}

// Dial - open the websocket, pings from the server are answered
func (d *WebsocketDialer) Dial(ctx context.Context) (Stream, error) {
	conn, response, err := d.dialer.DialContext(ctx, d.url, nil)
	if nil != response && nil != response.Body {
		response.Body.Close()
	}
	if nil != err {
		return nil, err
	}

	log := d.log
	conn.SetPingHandler(func(data string) error {
		log.Debugf("ping: %q", data)
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(pongTimeout))
		if websocket.ErrCloseSent == err {
			return nil
		}
		return err
	})

	return conn, nil
}
