// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/relayd/configuration"
	"github.com/bitmark-inc/relayd/fault"
	"github.com/bitmark-inc/relayd/publish"
	"github.com/bitmark-inc/relayd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "." // same directory as the configuration file

	defaultLogDirectory = "log"
	defaultLogFile      = "relayd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// Configuration - the daemon settings
//
// only the provider URLs and the listen address are required
type Configuration struct {
	DataDirectory string `gluamapper:"data_directory" toml:"data_directory" yaml:"data_directory" json:"data_directory"`
	PidFile       string `gluamapper:"pidfile" toml:"pidfile" yaml:"pidfile" json:"pidfile"`

	ProviderURL      string `gluamapper:"provider_url" toml:"provider_url" yaml:"provider_url" json:"provider_url"`
	ProviderURLHTTPS string `gluamapper:"provider_url_https" toml:"provider_url_https" yaml:"provider_url_https" json:"provider_url_https"`

	Listen             string `gluamapper:"listen" toml:"listen" yaml:"listen" json:"listen"`
	MaximumConnections int    `gluamapper:"maximum_connections" toml:"maximum_connections" yaml:"maximum_connections" json:"maximum_connections"`

	Metrics    string                `gluamapper:"metrics" toml:"metrics" yaml:"metrics" json:"metrics"`
	Publishing publish.Configuration `gluamapper:"publishing" toml:"publishing" yaml:"publishing" json:"publishing"`
	Logging    logger.Configuration  `gluamapper:"logging" toml:"logging" yaml:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	// decoding merges into the levels map so never hand out the defaults
	levels := make(map[string]string, len(defaultLogLevels))
	for tag, level := range defaultLogLevels {
		levels[tag] = level
	}

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    levels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	if "" == options.ProviderURL {
		return nil, fault.MissingStreamURL
	}
	if "" == options.ProviderURLHTTPS {
		return nil, fault.MissingFetchURL
	}
	if "" == options.Listen {
		return nil, fault.MissingListenAddress
	}
	if options.MaximumConnections < 0 {
		return nil, fmt.Errorf("maximum_connections: %d is negative", options.MaximumConnections)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = util.EnsureAbsolute(dataDirectory, options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = util.EnsureAbsolute(options.DataDirectory, options.PidFile)
	}

	// log file must be a plain name within the log directory
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// make absolute and create directories if they do not already exist
	options.Logging.Directory = util.EnsureAbsolute(options.DataDirectory, options.Logging.Directory)
	if err := os.MkdirAll(options.Logging.Directory, 0o700); nil != err {
		return nil, err
	}

	// done
	return options, nil
}
