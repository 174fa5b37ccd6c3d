// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"context"

	"github.com/bitmark-inc/logger"
	"github.com/jonboulle/clockwork"

	"github.com/bitmark-inc/relayd/background"
	"github.com/bitmark-inc/relayd/metrics"
	"github.com/bitmark-inc/relayd/parameters"
)

// Poller - periodic reconciliation with the provider
type Poller struct {
	log         *logger.L
	fetcher     Fetcher
	store       *parameters.Store
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	clock       clockwork.Clock
}

var _ background.Process = (*Poller)(nil)

// NewPoller - create the poller
func NewPoller(log *logger.L, fetcher Fetcher, store *parameters.Store, broadcaster Broadcaster, m *metrics.Metrics, clock clockwork.Clock) *Poller {
	log.Info("initialising…")
	return &Poller{
		log:         log,
		fetcher:     fetcher,
		store:       store,
		broadcaster: broadcaster,
		metrics:     m,
		clock:       clock,
	}
}

// Run - poll at once and then every PollInterval
func (p *Poller) Run(args interface{}, shutdown <-chan struct{}) {
	log := p.log

	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	p.Poll(ctx)

	ticker := p.clock.NewTicker(PollInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.Chan():
			p.Poll(ctx)
		}
	}

	log.Info("stopped")
}

// Poll - one fetch, the stored pair is replaced and broadcast if
// either value changed
//
// errors are logged and the cycle is skipped
func (p *Poller) Poll(ctx context.Context) bool {
	log := p.log

	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	pair, err := p.fetcher.Fetch(ctx)
	if nil != err {
		log.Warnf("fetch error: %s", err)
		p.metrics.UpstreamErrors.WithLabelValues(metrics.SourcePoller).Inc()
		return false
	}

	changed := p.store.UpdateAndPublish(pair, func(pair parameters.Pair) {
		log.Infof("changed: %s", pair)
		p.metrics.UpstreamUpdates.WithLabelValues(metrics.SourcePoller).Inc()
		p.broadcaster.Broadcast(pair)
	})
	if !changed {
		log.Debugf("unchanged: %s", pair)
	}
	return changed
}
