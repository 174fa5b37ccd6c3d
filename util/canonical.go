// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/relayd/fault"
)

// CanonicalIPandPort - make the IP:Port canonical
//
// examples:
//
//	IPv4:  127.0.0.1:1234
//	IPv6:  [::1]:1234
func CanonicalIPandPort(hostPort string) (string, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return "", fault.InvalidIPAddress
	}

	IP := net.ParseIP(strings.TrimSpace(host))
	if nil == IP {
		return "", fault.InvalidIPAddress
	}

	numericPort, err := parsePort(port)
	if nil != err {
		return "", err
	}

	if nil != IP.To4() {
		return IP.String() + ":" + strconv.Itoa(numericPort), nil
	}
	return "[" + IP.String() + "]:" + strconv.Itoa(numericPort), nil
}

// ListenAddress - network and address to pass to net.Listen
//
//	"*:PORT"         all interfaces, tcp4 and tcp6
//	"IPv4:PORT"      tcp4
//	"[IPv6]:PORT"    tcp6
//	"host:PORT"      tcp, the host name is resolved by the system
func ListenAddress(hostPort string) (network string, address string, err error) {
	hostPort = strings.TrimSpace(hostPort)
	if "" == hostPort {
		return "", "", fault.MissingListenAddress
	}

	if strings.HasPrefix(hostPort, "*:") {
		numericPort, err := parsePort(hostPort[2:])
		if nil != err {
			return "", "", err
		}
		return "tcp", "[::]:" + strconv.Itoa(numericPort), nil
	}

	host, port, err := net.SplitHostPort(hostPort)
	if nil != err {
		return "", "", fault.InvalidIPAddress
	}
	numericPort, err := parsePort(port)
	if nil != err {
		return "", "", err
	}

	IP := net.ParseIP(host)
	if nil == IP {
		return "tcp", net.JoinHostPort(host, strconv.Itoa(numericPort)), nil
	}
	if nil != IP.To4() {
		return "tcp4", IP.String() + ":" + strconv.Itoa(numericPort), nil
	}
	return "tcp6", "[" + IP.String() + "]:" + strconv.Itoa(numericPort), nil
}

func parsePort(port string) (int, error) {
	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err {
		return 0, fault.InvalidPortNumber
	}
	if numericPort < 1 || numericPort > 65535 {
		return 0, fault.InvalidPortNumber
	}
	return numericPort, nil
}
