// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/bitmark-inc/relayd/fault"
)

type reader func(fileName string, config interface{}) error

var readers = map[string]reader{
	".conf": parseLua,
	".lua":  parseLua,
	".toml": parseTOML,
	".yaml": parseYAML,
	".yml":  parseYAML,
}

// ParseConfigurationFile - read a configuration file and assign the
// results to the structure pointed to by config
//
// fields not present in the file keep their current values so
// defaults can be set before calling
func ParseConfigurationFile(fileName string, config interface{}) error {

	// since interface{} is untyped, have to verify type compatibility at run-time
	rv := reflect.ValueOf(config)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fault.InvalidStructPointer
	}

	// now sure item is a pointer, make sure it points to some kind of struct
	if rv.Elem().Kind() != reflect.Struct {
		return fault.InvalidStructPointer
	}

	read, ok := readers[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return fault.UnsupportedConfigurationType
	}

	if _, err := os.Stat(fileName); nil != err {
		if os.IsNotExist(err) {
			return fault.ConfigurationFileNotFound
		}
		return err
	}

	return read(fileName, config)
}
