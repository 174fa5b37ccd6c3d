// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyListening               = ExistsError("already listening")
	ConfigurationFileAlreadyExists = ExistsError("configuration file already exists")
	ConfigurationFileNotFound      = NotFoundError("configuration file not found")
	InvalidBatchReply              = InvalidError("invalid batch reply")
	InvalidConfigurationResult     = InvalidError("configuration did not return a table")
	InvalidHexValue                = InvalidError("invalid hex value")
	InvalidIPAddress               = InvalidError("invalid IP address")
	InvalidPayloadLength           = LengthError("invalid event payload length")
	InvalidPortNumber              = InvalidError("invalid port number")
	InvalidStructPointer           = InvalidError("invalid struct pointer")
	MissingBatchReply              = NotFoundError("missing batch reply")
	MissingEventData               = NotFoundError("missing event data")
	MissingFetchURL                = InvalidError("missing provider_url_https")
	MissingListenAddress           = InvalidError("missing listen address")
	MissingStreamURL               = InvalidError("missing provider_url")
	NotEventNotification           = InvalidError("not an event notification")
	SessionLimitReached            = ProcessError("session limit reached")
	UnknownMessage                 = InvalidError("unknown message")
	UnexpectedHTTPStatus           = ProcessError("unexpected HTTP status")
	UnsupportedConfigurationType   = InvalidError("unsupported configuration file type")
	UpstreamRPCError               = ProcessError("upstream RPC returned an error")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
