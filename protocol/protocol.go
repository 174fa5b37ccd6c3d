// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package protocol - messages sent to downstream clients
//
// each message is a single line of JSON terminated by a newline:
//
//   {"miningTarget":"0x…","challengeNumber":"0x…"}
//   {"ping":"ping"}
//
// clients never send anything
package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/bitmark-inc/relayd/fault"
	"github.com/bitmark-inc/relayd/parameters"
)

// Terminator - appended to every message on the wire
const Terminator = '\n'

const pingValue = "ping"

// Parameters - the update/snapshot message
type Parameters struct {
	MiningTarget    string `json:"miningTarget"`
	ChallengeNumber string `json:"challengeNumber"`
}

// Ping - the liveness message
type Ping struct {
	Ping string `json:"ping"`
}

// Message - a decoded line, exactly one field is set
type Message struct {
	Parameters *Parameters
	Ping       bool
}

// EncodeParameters - serialise a pair as a complete line
func EncodeParameters(pair parameters.Pair) []byte {
	return line(Parameters{
		MiningTarget:    pair.Target,
		ChallengeNumber: pair.Challenge,
	})
}

// EncodePing - serialise the ping as a complete line
func EncodePing() []byte {
	return line(Ping{Ping: pingValue})
}

// Decode - parse one line as received by a client, the terminator
// is optional
func Decode(text []byte) (Message, error) {
	var fields map[string]string
	if err := json.Unmarshal(bytes.TrimRight(text, "\r\n"), &fields); nil != err {
		return Message{}, err
	}

	if pingValue == fields["ping"] {
		return Message{Ping: true}, nil
	}

	target, okT := fields["miningTarget"]
	challenge, okC := fields["challengeNumber"]
	if !okT || !okC {
		return Message{}, fault.UnknownMessage
	}

	return Message{
		Parameters: &Parameters{
			MiningTarget:    target,
			ChallengeNumber: challenge,
		},
	}, nil
}

// Pair - convert back to parameters
func (p Parameters) Pair() parameters.Pair {
	return parameters.Pair{
		Target:    p.MiningTarget,
		Challenge: p.ChallengeNumber,
	}
}

// only string fields so marshal cannot fail
// the result is a new slice so it can be shared read-only
func line(v interface{}) []byte {
	data, err := json.Marshal(v)
	if nil != err {
		panic(err)
	}
	return append(data, Terminator)
}
