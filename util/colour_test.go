// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/relayd/util"
)

func TestColour(t *testing.T) {
	assert.Equal(t, "\x1b[32mchanged\x1b[0m", util.Colour(util.CoGreen, "changed"), "green")
	assert.Equal(t, "plain", util.Colour("", "plain"), "no colour")
}
