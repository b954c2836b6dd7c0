package httpapi

import (
	"net/http"

	"localweather/internal/config"
	"localweather/internal/stats"
)

// NewServer wraps the mux with the counting and logging middleware and binds
// it to the configured address.
func NewServer(cfg config.Config, counters *stats.Counters, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: requestLogger(countRequests(counters, mux)),
	}
}
