package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitesmith/internal/errors"
)

// Report summarizes one build run. It is written as build-report.json into
// the output directory with stable field ordering.
type Report struct {
	BuildID        string    `json:"build_id"`
	Started        time.Time `json:"started"`
	DurationMS     int64     `json:"duration_ms"`
	ContentFiles   int       `json:"content_files"`
	PublishedItems int       `json:"published_items"`
	PagesWritten   int       `json:"pages_written"`
	Outcome        string    `json:"outcome"` // success|partial|failed|skipped
	Failures       []Failure `json:"failures,omitempty"`
}

// Failure is one per-file error entry in the report.
type Failure struct {
	Path     string `json:"path,omitempty"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// failuresFrom projects the accumulated error list into report entries.
func failuresFrom(errs *errors.List) []Failure {
	list := errs.Errors()
	if len(list) == 0 {
		return nil
	}
	out := make([]Failure, 0, len(list))
	for _, e := range list {
		out = append(out, Failure{
			Path:     e.Source(),
			Category: string(e.Category),
			Message:  e.Message,
		})
	}
	return out
}

// Write persists the report into dir via a temp file and rename.
func (r *Report) Write(dir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, "build-report.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write build report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("finalize build report: %w", err)
	}
	return nil
}
