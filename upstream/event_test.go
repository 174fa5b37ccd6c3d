// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/relayd/fault"
	"github.com/bitmark-inc/relayd/upstream"
)

var challengeCC = "0x" + strings.Repeat("CC", 32)

// Mint() data: three leading words then the new challenge
func eventData(challenge string) string {
	return "0x" + strings.Repeat("0", 128) + challenge
}

func notification(data string) []byte {
	return []byte(fmt.Sprintf(`{"jsonrpc":"2.0","method":"eth_subscription","params":{"subscription":"0x9ce59a13059e417087c02d3236a0b1cc","result":{"address":"0xb6ed7644c69416d67b522e20bc294a9a9b405b31","data":"%s"}}}`, data))
}

func TestParseEvent(t *testing.T) {
	data := eventData(strings.Repeat("CC", 32))
	assert.Len(t, data, upstream.EventDataLength, "test data length")

	challenge, err := upstream.ParseEvent(notification(data))
	assert.NoError(t, err, "parse")
	assert.Equal(t, challengeCC, challenge, "challenge")
}

// any correctly sized payload is accepted without inspecting the digits
func TestParseEventOpaqueChallenge(t *testing.T) {
	challenge, err := upstream.ParseEvent(notification(eventData(strings.Repeat("ZZ", 32))))
	assert.NoError(t, err, "parse")
	assert.Equal(t, "0x"+strings.Repeat("ZZ", 32), challenge, "challenge")
}

func TestParseEventErrors(t *testing.T) {
	items := []struct {
		message string
		err     error
	}{
		{string(notification("0x" + strings.Repeat("a", 98))), fault.InvalidPayloadLength},
		{string(notification(eventData(strings.Repeat("CC", 32)) + "00")), fault.InvalidPayloadLength},
		{string(notification("")), fault.MissingEventData},
		{`{"jsonrpc":"2.0","id":1,"result":"0x9ce59a13059e417087c02d3236a0b1cc"}`, fault.NotEventNotification},
	}

	for i, item := range items {
		challenge, err := upstream.ParseEvent([]byte(item.message))
		assert.Equal(t, item.err, err, "%d: error", i)
		assert.Equal(t, "", challenge, "%d: challenge", i)
	}

	_, err := upstream.ParseEvent([]byte("not json"))
	assert.Error(t, err, "invalid json")
}
