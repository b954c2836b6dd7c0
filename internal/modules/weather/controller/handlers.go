package controller

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"localweather/internal/modules/weather/store"
	"localweather/internal/modules/weather/views"
	"localweather/internal/stats"
	"localweather/internal/utils"
)

// Controller serves read-only views over the observation store. Every request
// is handled independently; handlers never block each other beyond the
// store's read lock.
type Controller struct {
	store     *store.Store
	counters  *stats.Counters
	build     string
	sourceURL string
}

func New(st *store.Store, counters *stats.Counters, build, sourceURL string) *Controller {
	return &Controller{
		store:     st,
		counters:  counters,
		build:     build,
		sourceURL: sourceURL,
	}
}

// singleFields are the endpoints serving exactly one observation field, keyed
// by path segment.
var singleFields = []string{
	"temperature", "humidity", "pressure", "feels_like", "app_temp", "uvi", "solar",
}

func (c *Controller) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", c.handleRoot)
	mux.HandleFunc("GET /json", c.handleObservation)
	mux.HandleFunc("GET /all", c.handleObservation)
	mux.HandleFunc("GET /raw", c.handleRaw)
	mux.HandleFunc("GET /stats", c.handleStats)
	mux.HandleFunc("GET /time", c.handleTime)

	for _, field := range singleFields {
		mux.HandleFunc("GET /"+field, c.handleField(field))
	}
	// Shorthand kept for compatibility with older dashboards.
	mux.HandleFunc("GET /temp", c.handleField("temperature"))

	mux.HandleFunc("GET /wind", c.handleGroup("wind_speed", "wind_deg", "wind_gust"))
	mux.HandleFunc("GET /indoor", c.handleGroup("inside_temp", "inside_humidity"))
	mux.HandleFunc("GET /aqi", c.handleGroup("pm25", "pm25aqi", "pm10", "pm10aqi", "co2"))
	mux.HandleFunc("GET /rain", c.handleGroup("rain_1h", "rain_24h"))
	mux.HandleFunc("GET /precipitation", c.handleGroup("rain_1h", "rain_24h"))
}

// handleRoot serves the live HTML page at exactly "/" and the literal error
// payload for every other unrouted path.
func (c *Controller) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		utils.WriteError(w, http.StatusNotFound, "unsupported request")
		return
	}

	obs := c.store.Current()
	data := &views.LivePageData{
		Build:      c.build,
		Loaded:     c.store.Loaded(),
		Fields:     views.FieldRows(obs),
		LastUpdate: time.Unix(obs.DT, 0).Format(time.DateTime),
		Now:        time.Now().Format(time.DateTime),
		SourceURL:  c.sourceURL,
	}

	var buf bytes.Buffer
	if err := views.RenderLivePage(&buf, data); err != nil {
		slog.Error("live page render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *Controller) handleObservation(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.store.Current())
}

func (c *Controller) handleRaw(w http.ResponseWriter, r *http.Request) {
	raw := c.store.Raw()
	if raw == nil {
		raw = json.RawMessage(`{}`)
	}
	utils.WriteJSON(w, http.StatusOK, raw)
}

func (c *Controller) handleStats(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.counters.Snapshot(c.build))
}

func (c *Controller) handleTime(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"local_time": now.Format(time.DateTime),
		"utc":        now.UTC().Format(time.DateTime),
		"ts":         now.Unix(),
	})
}

// handleField serves exactly one observation field keyed by its canonical
// name.
func (c *Controller) handleField(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields := c.store.Current().Fields()
		utils.WriteJSON(w, http.StatusOK, map[string]any{field: fields[field]})
	}
}

// handleGroup serves a fixed subset of observation fields and nothing else.
func (c *Controller) handleGroup(names ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields := c.store.Current().Fields()
		result := make(map[string]any, len(names))
		for _, name := range names {
			result[name] = fields[name]
		}
		utils.WriteJSON(w, http.StatusOK, result)
	}
}
