// Package canvas renders an HTML countdown page for the next launch.
package canvas

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"launchintel/internal/model"
)

//go:embed index.html.tmpl
var defaultTemplate string

// UnknownMission fills the mission of launches that carry none.
const UnknownMission = "Unknown Mission"

// ErrNoLaunch is returned when there is no launch to render.
var ErrNoLaunch = errors.New("no launches available for canvas")

// Data is the launch as exposed to the page script as window.LAUNCH_DATA.
type Data struct {
	Name     string  `json:"name"`
	Mission  string  `json:"mission"`
	NET      *string `json:"net"`
	Location string  `json:"location"`
	Status   string  `json:"status"`
	Image    *string `json:"image"`
}

type page struct {
	Launch Data
}

// NewData converts a launch into page data.
func NewData(l model.Launch) Data {
	return Data{
		Name:     l.Name,
		Mission:  UnknownMission,
		NET:      l.NET,
		Location: l.Location,
		Status:   l.Status,
		Image:    l.Image,
	}
}

// Parse returns the template at path, or the built-in one when path is empty.
func Parse(path string) (*template.Template, error) {
	if path == "" {
		return template.New("canvas").Parse(defaultTemplate)
	}
	raw, err := os.ReadFile(path) //nolint:gosec // operator-supplied template path
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	tmpl, err := template.New(filepath.Base(path)).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	return tmpl, nil
}

// Render writes the page for l using tmpl.
func Render(w io.Writer, tmpl *template.Template, l model.Launch) error {
	if err := tmpl.Execute(w, page{Launch: NewData(l)}); err != nil {
		return fmt.Errorf("render canvas: %w", err)
	}
	return nil
}

// Generate renders the first of launches into outPath, creating its directory.
func Generate(outPath, tmplPath string, launches []model.Launch) error {
	if len(launches) == 0 {
		return ErrNoLaunch
	}
	tmpl, err := Parse(tmplPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(outPath) //nolint:gosec // configured output path
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	if err := Render(f, tmpl, launches[0]); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
