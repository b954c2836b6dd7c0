package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"

	"localweather/internal/modules/weather/store"
	"localweather/internal/modules/weather/types"
	"localweather/internal/modules/weather/views"
	"localweather/internal/stats"
)

func f(v float64) *float64 { return &v }

func loadedObservation() *types.Observation {
	return &types.Observation{
		DT:             1700000000,
		Temperature:    f(21.3),
		Humidity:       f(48),
		Pressure:       f(1009.8),
		FeelsLike:      f(20.1),
		AppTemp:        f(20.1),
		WindSpeed:      f(12.2),
		WindDeg:        f(215),
		WindGust:       f(19.1),
		Rain1h:         0.4,
		Rain24h:        6.2,
		Solar:          312.5,
		UVI:            3,
		InsideTemp:     f(23.1),
		InsideHumidity: f(41),
		PM25:           f(4.1),
		PM25AQI:        f(17),
		PM10:           f(5),
		PM10AQI:        f(21),
		CO2:            f(512),
	}
}

func newTestMux(t *testing.T, loaded bool) (*http.ServeMux, *store.Store, *stats.Counters) {
	t.Helper()
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	st := store.New()
	if loaded {
		st.Replace(loadedObservation())
		st.SetRaw(json.RawMessage(`{"common_list":[{"id":"0x02","val":"21.3 C"}]}`))
	}
	counters := stats.New()

	mux := http.NewServeMux()
	New(st, counters, "0.0.1", "http://192.168.0.2/get_livedata_info").RegisterRoutes(mux)
	return mux, st, counters
}

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("body is not valid JSON: %v (body %q)", err, rec.Body.String())
	}
	return payload
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func Test_handleRoot(t *testing.T) {
	t.Run("renders no-data message before first poll", func(t *testing.T) {
		mux, _, _ := newTestMux(t, false)
		rec := get(t, mux, "/")

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("Content-Type = %q; want text/html; charset=utf-8", ct)
		}
		if !strings.Contains(rec.Body.String(), "No weather data available") {
			t.Errorf("body missing no-data message; got %q", rec.Body.String())
		}
	})

	t.Run("renders every observation field once loaded", func(t *testing.T) {
		mux, _, _ := newTestMux(t, true)
		rec := get(t, mux, "/")

		body := rec.Body.String()
		for _, name := range types.FieldOrder {
			if !strings.Contains(body, name) {
				t.Errorf("body missing field row %q", name)
			}
		}
		if !strings.Contains(body, "21.3") {
			t.Error("body missing temperature value")
		}
	})

	t.Run("returns literal error payload for unknown paths", func(t *testing.T) {
		mux, _, _ := newTestMux(t, true)
		rec := get(t, mux, "/nonexistent")

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusNotFound)
		}
		payload := decodeJSON(t, rec)
		if payload["message"] != "unsupported request" {
			t.Errorf("message = %v; want %q", payload["message"], "unsupported request")
		}
	})
}

func Test_handleObservation(t *testing.T) {
	t.Run("returns sentinel before first poll", func(t *testing.T) {
		mux, _, _ := newTestMux(t, false)

		for _, path := range []string{"/json", "/all"} {
			rec := get(t, mux, path)
			if rec.Code != http.StatusOK {
				t.Errorf("%s status = %d; want %d", path, rec.Code, http.StatusOK)
			}
			payload := decodeJSON(t, rec)
			if payload["dt"] != float64(0) {
				t.Errorf("%s dt = %v; want 0", path, payload["dt"])
			}
			if payload["temperature"] != nil {
				t.Errorf("%s temperature = %v; want null", path, payload["temperature"])
			}
		}
	})

	t.Run("returns full observation once loaded", func(t *testing.T) {
		mux, _, _ := newTestMux(t, true)
		rec := get(t, mux, "/json")

		if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q; want application/json", ct)
		}
		if cl := rec.Header().Get("Content-Length"); cl != strconv.Itoa(rec.Body.Len()) {
			t.Errorf("Content-Length = %q; want %d", cl, rec.Body.Len())
		}

		payload := decodeJSON(t, rec)
		if payload["temperature"] != 21.3 {
			t.Errorf("temperature = %v; want 21.3", payload["temperature"])
		}
		if payload["dt"] != float64(1700000000) {
			t.Errorf("dt = %v; want 1700000000", payload["dt"])
		}
		if len(payload) != len(types.FieldOrder) {
			t.Errorf("field count = %d; want %d", len(payload), len(types.FieldOrder))
		}
	})
}

func Test_handleRaw(t *testing.T) {
	t.Run("returns empty object before first fetch", func(t *testing.T) {
		mux, _, _ := newTestMux(t, false)
		rec := get(t, mux, "/raw")
		if strings.TrimSpace(rec.Body.String()) != "{}" {
			t.Errorf("body = %q; want {}", rec.Body.String())
		}
	})

	t.Run("returns last device payload", func(t *testing.T) {
		mux, _, _ := newTestMux(t, true)
		rec := get(t, mux, "/raw")
		payload := decodeJSON(t, rec)
		if _, ok := payload["common_list"]; !ok {
			t.Errorf("body = %q; want raw device payload", rec.Body.String())
		}
	})
}

func Test_singleFieldEndpoints(t *testing.T) {
	mux, _, _ := newTestMux(t, true)

	tests := []struct {
		path string
		key  string
		want float64
	}{
		{path: "/temperature", key: "temperature", want: 21.3},
		{path: "/temp", key: "temperature", want: 21.3},
		{path: "/humidity", key: "humidity", want: 48},
		{path: "/pressure", key: "pressure", want: 1009.8},
		{path: "/feels_like", key: "feels_like", want: 20.1},
		{path: "/app_temp", key: "app_temp", want: 20.1},
		{path: "/uvi", key: "uvi", want: 3},
		{path: "/solar", key: "solar", want: 312.5},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, mux, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
			}
			payload := decodeJSON(t, rec)
			if len(payload) != 1 {
				t.Errorf("keys = %v; want exactly [%s]", keysOf(payload), tt.key)
			}
			if payload[tt.key] != tt.want {
				t.Errorf("%s = %v; want %v", tt.key, payload[tt.key], tt.want)
			}
		})
	}
}

func Test_groupEndpoints(t *testing.T) {
	mux, _, _ := newTestMux(t, true)

	tests := []struct {
		path string
		keys []string
	}{
		{path: "/wind", keys: []string{"wind_deg", "wind_gust", "wind_speed"}},
		{path: "/indoor", keys: []string{"inside_humidity", "inside_temp"}},
		{path: "/aqi", keys: []string{"co2", "pm10", "pm10aqi", "pm25", "pm25aqi"}},
		{path: "/rain", keys: []string{"rain_1h", "rain_24h"}},
		{path: "/precipitation", keys: []string{"rain_1h", "rain_24h"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, mux, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
			}
			payload := decodeJSON(t, rec)
			got := keysOf(payload)
			if len(got) != len(tt.keys) {
				t.Fatalf("keys = %v; want exactly %v", got, tt.keys)
			}
			for i, k := range tt.keys {
				if got[i] != k {
					t.Errorf("keys = %v; want exactly %v", got, tt.keys)
					break
				}
			}
		})
	}
}

func Test_handleStats(t *testing.T) {
	mux, _, counters := newTestMux(t, true)
	counters.RecordRequest("/json")
	counters.RecordSinkWrite(false)

	rec := get(t, mux, "/stats")
	payload := decodeJSON(t, rec)

	for _, key := range []string{"localweather", "gets", "errors", "uri", "ts", "start", "clear", "influxdb", "influxdberrors", "mem"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("stats payload missing key %q", key)
		}
	}
	if payload["localweather"] != "0.0.1" {
		t.Errorf("build = %v; want 0.0.1", payload["localweather"])
	}
	if payload["influxdberrors"] != float64(1) {
		t.Errorf("influxdberrors = %v; want 1", payload["influxdberrors"])
	}
}

func Test_handleTime(t *testing.T) {
	mux, _, _ := newTestMux(t, true)
	rec := get(t, mux, "/time")
	payload := decodeJSON(t, rec)

	for _, key := range []string{"local_time", "utc", "ts"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("time payload missing key %q", key)
		}
	}
	if ts, ok := payload["ts"].(float64); !ok || ts <= 0 {
		t.Errorf("ts = %v; want positive epoch seconds", payload["ts"])
	}
}
