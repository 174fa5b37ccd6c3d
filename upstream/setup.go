// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package upstream - obtain the mining parameters from an ethereum
// provider, by polling a JSON-RPC endpoint and by subscribing to the
// contract's Mint() events over a websocket
package upstream

import (
	"time"

	"github.com/bitmark-inc/relayd/parameters"
)

// contract details
const (
	ContractAddress = "0xb6ed7644c69416d67b522e20bc294a9a9b405b31"

	// function selectors of miningTarget() and challengeNumber()
	MiningTargetSelector    = "0x8a769d35"
	ChallengeNumberSelector = "0x8ae0368b"

	// topic of the Mint() event
	MintTopic = "0xcf6fbb9dcea7d07263ab4f5c3a92f53af33dffc421d9d121e1c74b307e68189d"
)

// batch request ids
const (
	targetID    = 1
	challengeID = 2
)

// Mint() event data: the challenge is the final 32 bytes
const (
	EventDataLength = 194
	challengeOffset = 130
)

// timing
const (
	PollInterval   = 10 * time.Second
	FetchTimeout   = 8 * time.Second
	ReconnectDelay = 1 * time.Second
	DialTimeout    = 10 * time.Second
)

// largest reply body accepted from the fetch endpoint
const maximumReplySize = 64 * 1024

// Broadcaster - receives every changed pair
type Broadcaster interface {
	Broadcast(pair parameters.Pair) int
}
