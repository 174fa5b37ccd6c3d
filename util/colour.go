// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// ANSI colour codes
const (
	CoReset  = "\x1b[0m"
	CoBright = "\x1b[1m"
	CoDim    = "\x1b[2m"

	CoRed    = "\x1b[31m"
	CoGreen  = "\x1b[32m"
	CoYellow = "\x1b[33m"
	CoCyan   = "\x1b[36m"
)

// Colour - wrap a message in a colour, an empty colour leaves the
// message unchanged
func Colour(colour string, message string) string {
	if "" == colour {
		return message
	}
	return colour + message + CoReset
}
