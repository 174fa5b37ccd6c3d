// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package templates - text for files created by setup commands
package templates

import (
	"io"
	"text/template"
)

// Configuration - values substituted into ConfigurationTemplate
type Configuration struct {
	DataDirectory    string
	ProviderURL      string
	ProviderURLHTTPS string
	Listen           string
}

// ConfigurationTemplate - sample Lua configuration for relayd
const ConfigurationTemplate = `-- relayd.conf  -*- mode: lua -*-

local M = {}

-- "." is the directory containing this file
M.data_directory = "{{.DataDirectory}}"

-- optional pid file if not absolute path then is created relative to
-- the data directory
-- M.pidfile = "relayd.pid"

-- ethereum provider: websocket events and JSON-RPC calls
M.provider_url = "{{.ProviderURL}}"
M.provider_url_https = "{{.ProviderURLHTTPS}}"

-- downstream miners, "*:PORT" for all interfaces
M.listen = "{{.Listen}}"

-- zero is unlimited
M.maximum_connections = 0

-- prometheus scrape address, blank to disable
M.metrics = ""

-- zmq mirror of parameter changes, empty to disable
M.publishing = {
    broadcast = {
        -- "127.0.0.1:2140",
        -- "[::1]:2140",
    },
}

-- logging configuration
M.logging = {
    size = 1048576,
    count = 10,

    -- set to true to log to console
    console = false,

    -- set the logging level for various modules
    -- modules not overridden with get the value from DEFAULT
    -- the default value for DEFAULT is "critical"
    levels = {
        DEFAULT = "info",

        -- subscriber = "debug",
        -- poller = "debug",
        -- broadcast = "debug",
    },
}

-- return the complete configuration
return M
`

// WriteConfiguration - expand the configuration template
func WriteConfiguration(w io.Writer, c Configuration) error {
	t, err := template.New("configuration").Parse(ConfigurationTemplate)
	if nil != err {
		return err
	}
	return t.Execute(w, c)
}
