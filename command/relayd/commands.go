// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/relayd/fault"
	"github.com/bitmark-inc/relayd/templates"
	"github.com/bitmark-inc/relayd/util"
)

const (
	defaultConfigurationFilename = "relayd.conf"
	defaultProviderURL           = "wss://mainnet.infura.io/ws/v3/PROJECT-ID"
	defaultProviderURLHTTPS      = "https://mainnet.infura.io/v3/PROJECT-ID"
	defaultListen                = "*:3333"
)

// setup command handler
//
// commands that run to create the initial configuration these
// commands cannot access the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-config", "config":
		fileName := defaultConfigurationFilename
		if len(arguments) >= 1 && "" != arguments[0] {
			fileName = arguments[0]
		}

		if err := generateConfiguration(fileName); nil != err {
			fmt.Printf("generate configuration: %q error: %s\n", fileName, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated configuration: %q\n", fileName)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-config [FILE]          (config) - create a sample configuration in: %q\n", defaultConfigurationFilename)
		fmt.Printf("                                        or FILE if given, never overwrites\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	case "start", "run":
		return false // continue processing

	default:
		exitwithstatus.Message("error: no such command: %s", command)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// write a sample configuration, an existing file is an error
func generateConfiguration(fileName string) error {
	if util.EnsureFileExists(fileName) {
		return fault.ConfigurationFileAlreadyExists
	}

	fd, err := os.OpenFile(fileName, os.O_WRONLY|os.O_EXCL|os.O_CREATE, 0o600)
	if nil != err {
		return err
	}

	err = templates.WriteConfiguration(fd, templates.Configuration{
		DataDirectory:    defaultDataDirectory,
		ProviderURL:      defaultProviderURL,
		ProviderURLHTTPS: defaultProviderURLHTTPS,
		Listen:           defaultListen,
	})
	if nil != err {
		fd.Close()
		os.Remove(fileName)
		return err
	}
	return fd.Close()
}
