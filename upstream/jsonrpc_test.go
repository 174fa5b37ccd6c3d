// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/relayd/fault"
	"github.com/bitmark-inc/relayd/parameters"
)

func TestBatchRequestEncoding(t *testing.T) {
	data, err := json.Marshal(batchRequest())
	require.NoError(t, err, "marshal")

	expected := `[` +
		`{"method":"eth_call","params":[{"to":"0xb6ed7644c69416d67b522e20bc294a9a9b405b31","data":"0x8a769d35"},"latest"],"id":1,"jsonrpc":"2.0"},` +
		`{"method":"eth_call","params":[{"to":"0xb6ed7644c69416d67b522e20bc294a9a9b405b31","data":"0x8ae0368b"},"latest"],"id":2,"jsonrpc":"2.0"}` +
		`]`
	assert.Equal(t, expected, string(data), "batch request")
}

func TestSubscribeRequestEncoding(t *testing.T) {
	data, err := json.Marshal(subscribeRequest())
	require.NoError(t, err, "marshal")

	expected := `{"method":"eth_subscribe","params":["logs",{"address":"0xb6ed7644c69416d67b522e20bc294a9a9b405b31",` +
		`"topics":["0xcf6fbb9dcea7d07263ab4f5c3a92f53af33dffc421d9d121e1c74b307e68189d"]}],"id":1,"jsonrpc":"2.0"}`
	assert.Equal(t, expected, string(data), "subscribe request")
}

func TestIsHex(t *testing.T) {
	items := []struct {
		s  string
		ok bool
	}{
		{"0xAA", true},
		{"0x0123456789abcdefABCDEF", true},
		{"0x0", true},
		{"0x", false},
		{"", false},
		{"AA", false},
		{"0X12", false},
		{"0x12g4", false},
		{"0x 12", false},
	}

	for i, item := range items {
		assert.Equal(t, item.ok, isHex(item.s), "%d: %q", i, item.s)
	}
}

func TestParseBatchReply(t *testing.T) {
	items := []struct {
		reply string
		pair  parameters.Pair
		err   error
	}{
		{
			reply: `[{"id":1,"result":"0xAA"},{"id":2,"result":"0xBB"}]`,
			pair:  parameters.Pair{Target: "0xAA", Challenge: "0xBB"},
		},
		{
			// reversed order
			reply: `[{"jsonrpc":"2.0","id":2,"result":"0xBB"},{"jsonrpc":"2.0","id":1,"result":"0xAA"}]`,
			pair:  parameters.Pair{Target: "0xAA", Challenge: "0xBB"},
		},
		{
			// unknown ids are ignored
			reply: `[{"id":1,"result":"0xAA"},{"id":7,"result":"junk"},{"id":2,"result":"0xBB"}]`,
			pair:  parameters.Pair{Target: "0xAA", Challenge: "0xBB"},
		},
		{
			reply: `[{"id":1,"result":"0xAA"}]`,
			err:   fault.MissingBatchReply,
		},
		{
			reply: `[]`,
			err:   fault.MissingBatchReply,
		},
		{
			reply: `[{"id":1,"result":"0xAA"},{"id":2,"error":{"code":-32000,"message":"header not found"}}]`,
			err:   fault.UpstreamRPCError,
		},
		{
			reply: `[{"id":1,"result":"0xAA"},{"id":2,"result":"not hex"}]`,
			err:   fault.InvalidHexValue,
		},
		{
			reply: `{"id":1,"result":"0xAA"}`,
			err:   fault.InvalidBatchReply,
		},
		{
			reply: `<html>bad gateway</html>`,
			err:   fault.InvalidBatchReply,
		},
	}

	for i, item := range items {
		pair, err := parseBatchReply([]byte(item.reply))
		assert.Equal(t, item.err, err, "%d: error", i)
		assert.Equal(t, item.pair, pair, "%d: pair", i)
	}
}
