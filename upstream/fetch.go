// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/bitmark-inc/relayd/fault"
	"github.com/bitmark-inc/relayd/parameters"
)

// Fetcher - one request/response read of the current pair
type Fetcher interface {
	Fetch(ctx context.Context) (parameters.Pair, error)
}

// HTTPFetcher - batched eth_call over HTTP(S)
type HTTPFetcher struct {
	client *http.Client
	url    string
	body   []byte
}

// NewHTTPFetcher - create a fetcher for the provider URL
//
// a nil client selects http.DefaultClient
func NewHTTPFetcher(url string, client *http.Client) (*HTTPFetcher, error) {
	if "" == url {
		return nil, fault.MissingFetchURL
	}
	if nil == client {
		client = http.DefaultClient
	}

	body, err := json.Marshal(batchRequest())
	if nil != err {
		return nil, err
	}

	return &HTTPFetcher{
		client: client,
		url:    url,
		body:   body,
	}, nil
}

// Fetch - both values from a single batched call
func (f *HTTPFetcher) Fetch(ctx context.Context) (parameters.Pair, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(f.body))
	if nil != err {
		return parameters.Pair{}, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := f.client.Do(request)
	if nil != err {
		return parameters.Pair{}, err
	}
	defer response.Body.Close()

	if http.StatusOK != response.StatusCode {
		return parameters.Pair{}, fault.UnexpectedHTTPStatus
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maximumReplySize))
	if nil != err {
		return parameters.Pair{}, err
	}

	return parseBatchReply(data)
}

// replies are matched by id, order is not significant
func parseBatchReply(data []byte) (parameters.Pair, error) {
	var replies []reply
	if err := json.Unmarshal(data, &replies); nil != err {
		return parameters.Pair{}, fault.InvalidBatchReply
	}

	pair := parameters.Pair{}
	for _, r := range replies {
		if nil != r.Error {
			return parameters.Pair{}, fault.UpstreamRPCError
		}
		switch r.ID {
		case targetID:
			pair.Target = r.Result
		case challengeID:
			pair.Challenge = r.Result
		default:
			continue
		}
		if !isHex(r.Result) {
			return parameters.Pair{}, fault.InvalidHexValue
		}
	}

	if !pair.IsValid() {
		return parameters.Pair{}, fault.MissingBatchReply
	}
	return pair, nil
}
