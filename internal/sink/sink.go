// Package sink forwards published observations to external consumers. A sink
// receives exactly one record per poll cycle; write failures are reported to
// the caller and must never affect the observation store.
package sink

import (
	"context"

	"localweather/internal/modules/weather/types"
)

// Sink is the narrow write contract for forwarding one observation.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// Write forwards one complete observation. The call is bounded; it
	// returns an error instead of blocking indefinitely.
	Write(ctx context.Context, obs *types.Observation) error
	// Close releases the sink's connection, if any.
	Close() error
}

// fieldSet flattens an observation into a sink field map. Absent (nil) values
// are dropped; zero-default accumulation fields are always included.
func fieldSet(obs *types.Observation) map[string]any {
	fields := make(map[string]any, 24)
	for name, v := range obs.Fields() {
		if v == nil {
			continue
		}
		fields[name] = v
	}
	return fields
}
