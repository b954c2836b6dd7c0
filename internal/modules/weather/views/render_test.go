package views

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"localweather/internal/modules/weather/types"
)

func TestLoadTemplates_success(t *testing.T) {
	err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() = %v; want nil", err)
	}
	if liveTmpl == nil {
		t.Fatal("LoadTemplates() left liveTmpl nil")
	}
}

func TestLoadTemplates_failure_sub(t *testing.T) {
	// Empty FS has no "templates" directory; fs.Sub fails.
	emptyFS := fstest.MapFS{}
	if err := loadTemplatesFromFS(emptyFS, "templates"); err == nil {
		t.Fatal("loadTemplatesFromFS(emptyFS, \"templates\") = nil; want error")
	}
}

func TestLoadTemplates_failure_parse(t *testing.T) {
	badFS := fstest.MapFS{
		"templates/live.html": {Data: []byte("{{ .")},
	}
	if err := loadTemplatesFromFS(badFS, "templates"); err == nil {
		t.Fatal("loadTemplatesFromFS(badFS, \"templates\") = nil; want error")
	}
}

func TestRenderLivePage_notLoaded(t *testing.T) {
	prev := liveTmpl
	liveTmpl = nil
	t.Cleanup(func() { liveTmpl = prev })

	var buf bytes.Buffer
	err := RenderLivePage(&buf, &LivePageData{})
	if err == nil {
		t.Fatal("RenderLivePage() = nil; want error when templates not loaded")
	}
	if !strings.Contains(err.Error(), "not loaded") {
		t.Errorf("err = %q; want message containing \"not loaded\"", err.Error())
	}
}

func TestRenderLivePage_noData(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	var buf bytes.Buffer
	data := &LivePageData{Build: "0.0.1", Loaded: false, SourceURL: "http://192.168.0.2/get_livedata_info"}
	if err := RenderLivePage(&buf, data); err != nil {
		t.Fatalf("RenderLivePage(no data) = %v; want nil", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No weather data available") {
		t.Errorf("output missing no-data message; got %q", out)
	}
	if !strings.Contains(out, "LocalWeather Server v0.0.1") {
		t.Errorf("output missing title; got %q", out)
	}
}

func TestRenderLivePage_withData(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	temp := 21.3
	obs := &types.Observation{DT: 1700000000, Temperature: &temp}
	data := &LivePageData{
		Build:  "0.0.1",
		Loaded: true,
		Fields: FieldRows(obs),
	}

	var buf bytes.Buffer
	if err := RenderLivePage(&buf, data); err != nil {
		t.Fatalf("RenderLivePage(with data) = %v; want nil", err)
	}
	out := buf.String()
	if !strings.Contains(out, "temperature") || !strings.Contains(out, "21.3") {
		t.Errorf("output missing temperature row; got %q", out)
	}
	if strings.Contains(out, "No weather data available") {
		t.Error("output contains no-data message despite data being loaded")
	}
}

func TestFieldRows(t *testing.T) {
	temp := 18.5
	obs := &types.Observation{DT: 1700000000, Temperature: &temp, Rain1h: 0.4}

	rows := FieldRows(obs)
	if len(rows) != len(types.FieldOrder) {
		t.Fatalf("len(rows) = %d; want %d", len(rows), len(types.FieldOrder))
	}

	byName := make(map[string]string, len(rows))
	for _, r := range rows {
		byName[r.Name] = r.Value
	}
	if byName["temperature"] != "18.5" {
		t.Errorf("temperature row = %q; want 18.5", byName["temperature"])
	}
	if byName["humidity"] != "-" {
		t.Errorf("humidity row = %q; want dash for absent field", byName["humidity"])
	}
	if byName["rain_1h"] != "0.4" {
		t.Errorf("rain_1h row = %q; want 0.4", byName["rain_1h"])
	}
	if byName["dt"] != "1700000000" {
		t.Errorf("dt row = %q; want 1700000000", byName["dt"])
	}
}
