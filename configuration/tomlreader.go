// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"github.com/BurntSushi/toml"
)

func parseTOML(fileName string, config interface{}) error {
	_, err := toml.DecodeFile(fileName, config)
	return err
}
