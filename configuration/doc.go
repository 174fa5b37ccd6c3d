// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a configuration file into a structure
//
// the reader is selected by file extension:
//
//   .lua .conf   Lua script returning a table, most of base Lua is
//                available such as getenv to extract environment
//                supplied items
//   .toml        TOML document
//   .yaml .yml   YAML document
//
// Lua fields are matched using the "gluamapper" struct tag, TOML
// using "toml" and YAML using "yaml"
package configuration
