// Package weather wires the observation feature: the store shared between the
// poller and the query handlers, and the HTTP routes serving it.
package weather

import (
	"net/http"

	"localweather/internal/modules/weather/controller"
	"localweather/internal/modules/weather/store"
	"localweather/internal/stats"
)

// RegisterFeature mounts all observation query routes on the mux.
func RegisterFeature(mux *http.ServeMux, st *store.Store, counters *stats.Counters, build, sourceURL string) {
	ctrl := controller.New(st, counters, build, sourceURL)
	ctrl.RegisterRoutes(mux)
}
