// Package poller runs the fetch-map-publish cycle against the station.
package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"localweather/internal/modules/weather/mapper"
	"localweather/internal/modules/weather/store"
	"localweather/internal/modules/weather/types"
	"localweather/internal/sink"
	"localweather/internal/stats"
)

// sinkWriteTimeout bounds each sink write so a hung sink cannot stall the
// poll loop.
const sinkWriteTimeout = 10 * time.Second

// Fetcher retrieves one raw live-data payload from the station.
type Fetcher interface {
	Fetch(ctx context.Context) (json.RawMessage, *types.RawObservation, error)
}

// Poller periodically fetches the station, maps the payload and publishes the
// result to the store and the configured sinks.
type Poller struct {
	fetcher  Fetcher
	store    *store.Store
	counters *stats.Counters
	sinks    []sink.Sink
	interval time.Duration
}

func New(fetcher Fetcher, st *store.Store, counters *stats.Counters, sinks []sink.Sink, interval time.Duration) *Poller {
	return &Poller{
		fetcher:  fetcher,
		store:    st,
		counters: counters,
		sinks:    sinks,
		interval: interval,
	}
}

// Run polls immediately, then once per interval until ctx is cancelled. A
// failed cycle never terminates the loop; the next tick retries.
func (p *Poller) Run(ctx context.Context) {
	slog.Info("poller started", "interval", p.interval)

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	body, raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("device fetch failed", "error", err)
		p.counters.RecordError()
		return
	}

	obs := mapper.Map(raw, time.Now().Unix())

	p.store.SetRaw(body)
	p.store.Replace(obs)
	slog.Debug("observation published", "dt", obs.DT)

	for _, s := range p.sinks {
		writeCtx, cancel := context.WithTimeout(ctx, sinkWriteTimeout)
		err := s.Write(writeCtx, obs)
		cancel()
		if err != nil {
			slog.Warn("sink write failed", "sink", s.Name(), "error", err)
			p.counters.RecordSinkWrite(false)
			continue
		}
		p.counters.RecordSinkWrite(true)
	}
}
