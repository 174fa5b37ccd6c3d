// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package parameters - the mining target and challenge relayed to
// every downstream client
package parameters

import (
	"fmt"
)

// Pair - the current mining parameters
//
// both values are opaque 0x-prefixed hex strings compared exactly
type Pair struct {
	Target    string
	Challenge string
}

// IsValid - true once both values are known
func (p Pair) IsValid() bool {
	return "" != p.Target && "" != p.Challenge
}

// String - for logging
func (p Pair) String() string {
	return fmt.Sprintf("target: %s  challenge: %s", p.Target, p.Challenge)
}
