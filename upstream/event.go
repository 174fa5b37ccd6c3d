// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"encoding/json"

	"github.com/bitmark-inc/relayd/fault"
)

// ParseEvent - extract the new challenge from a log notification
//
// payloads that are not exactly EventDataLength characters come from
// a different contract version and are rejected with a length error
func ParseEvent(message []byte) (string, error) {
	var n notification
	if err := json.Unmarshal(message, &n); nil != err {
		return "", err
	}
	if nil == n.Params {
		return "", fault.NotEventNotification
	}

	data := n.Params.Result.Data
	if "" == data {
		return "", fault.MissingEventData
	}
	if EventDataLength != len(data) {
		return "", fault.InvalidPayloadLength
	}

	// the challenge is relayed as is, only its size is checked
	return "0x" + data[challengeOffset:EventDataLength], nil
}
