package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"localweather/internal/modules/weather/types"
)

//go:embed templates
var viewsFS embed.FS

var liveTmpl *template.Template

// loadTemplatesFromFS loads the live page template from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	liveTmpl, err = template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// FieldRow is one observation field rendered on the live page.
type FieldRow struct {
	Name  string
	Value string
}

// LivePageData is the view model for the live conditions page.
type LivePageData struct {
	Build      string
	Loaded     bool
	Fields     []FieldRow
	LastUpdate string
	Now        string
	SourceURL  string
}

// FieldRows flattens an observation into display rows in canonical order.
// Absent fields render as a dash.
func FieldRows(obs *types.Observation) []FieldRow {
	fields := obs.Fields()
	rows := make([]FieldRow, 0, len(types.FieldOrder))
	for _, name := range types.FieldOrder {
		row := FieldRow{Name: name, Value: "-"}
		switch v := fields[name].(type) {
		case float64:
			row.Value = strconv.FormatFloat(v, 'f', -1, 64)
		case int64:
			row.Value = strconv.FormatInt(v, 10)
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderLivePage executes the live page template into w.
func RenderLivePage(w io.Writer, data *LivePageData) error {
	if liveTmpl == nil {
		return errors.New("live template not loaded: call views.LoadTemplates during startup")
	}
	return liveTmpl.ExecuteTemplate(w, "live.html", data)
}
