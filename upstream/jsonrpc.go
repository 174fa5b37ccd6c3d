// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

const jsonrpcVersion = "2.0"

type request struct {
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
	JSONRPC string        `json:"jsonrpc"`
}

type callObject struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

type logFilter struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type reply struct {
	ID     int       `json:"id"`
	Result string    `json:"result"`
	Error  *rpcError `json:"error"`
}

type notification struct {
	Method string `json:"method"`
	Params *struct {
		Subscription string `json:"subscription"`
		Result       struct {
			Data string `json:"data"`
		} `json:"result"`
	} `json:"params"`
}

func call(id int, selector string) request {
	return request{
		Method: "eth_call",
		Params: []interface{}{
			callObject{To: ContractAddress, Data: selector},
			"latest",
		},
		ID:      id,
		JSONRPC: jsonrpcVersion,
	}
}

// both values in one round trip
func batchRequest() []request {
	return []request{
		call(targetID, MiningTargetSelector),
		call(challengeID, ChallengeNumberSelector),
	}
}

func subscribeRequest() request {
	return request{
		Method: "eth_subscribe",
		Params: []interface{}{
			"logs",
			logFilter{Address: ContractAddress, Topics: []string{MintTopic}},
		},
		ID:      1,
		JSONRPC: jsonrpcVersion,
	}
}

// isHex - "0x" followed by at least one hex digit
func isHex(s string) bool {
	if len(s) < 3 || "0x" != s[:2] {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
