// Package publish writes the assembled page set to disk. Output lands in a
// sibling staging directory first and is promoted atomically on success, so
// an aborted build never leaves a torn output directory behind.
package publish

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/sitesmith/internal/errors"
	"git.home.luguber.info/inful/sitesmith/internal/site"
)

// writeWorkers bounds the concurrent file writes; page writes are I/O bound.
const writeWorkers = 8

// Writer stages and promotes a build's output.
type Writer struct {
	outputDir string
	stageDir  string
}

// NewWriter creates a writer for the given final output directory.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: filepath.Clean(outputDir)}
}

// Begin creates the staging directory (sibling of the output dir).
func (w *Writer) Begin() error {
	stage := w.outputDir + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return errors.WriteFailed(stage, err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return errors.WriteFailed(stage, err)
	}
	w.stageDir = stage
	slog.Debug("Initialized staging directory", "staging", stage, "final", w.outputDir)
	return nil
}

// WritePages writes the page set into the staging directory using a bounded
// worker pool. Per-file failures are collected; remaining files are still
// attempted.
func (w *Writer) WritePages(ctx context.Context, pages []*site.Page, errs *errors.List) int {
	jobs := make(chan *site.Page)
	var wg sync.WaitGroup
	var written int
	var mu sync.Mutex

	for i := 0; i < writeWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				if err := w.writePage(page); err != nil {
					errs.Add(err)
					continue
				}
				mu.Lock()
				written++
				mu.Unlock()
			}
		}()
	}

	for _, page := range pages {
		if ctx.Err() != nil {
			break
		}
		jobs <- page
	}
	close(jobs)
	wg.Wait()

	return written
}

func (w *Writer) writePage(page *site.Page) error {
	dest := filepath.Join(w.stageDir, filepath.FromSlash(page.OutPath))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.WriteFailed(page.OutPath, err)
	}
	if err := os.WriteFile(dest, page.Body, 0o644); err != nil {
		return errors.WriteFailed(page.OutPath, err)
	}
	return nil
}

// CopyStatic copies a static asset tree into the staging directory root.
// Missing source trees are not an error.
func (w *Writer) CopyStatic(fsys fs.FS, errs *errors.List) {
	if fsys == nil {
		return
	}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			errs.Add(errors.WriteFailed(path, err))
			return nil
		}
		dest := filepath.Join(w.stageDir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			errs.Add(errors.WriteFailed(path, err))
			return nil
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			errs.Add(errors.WriteFailed(path, err))
		}
		return nil
	})
	if err != nil {
		errs.Add(errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityError, "copy static assets"))
	}
}

// Promote atomically swaps the staging directory into the final output
// location. The previous output is parked at <output>.prev and removed
// best-effort afterwards.
func (w *Writer) Promote() error {
	if w.stageDir == "" {
		return errors.New(errors.CategoryInternal, errors.SeverityFatal, "no staging directory initialized")
	}
	if _, err := os.Stat(w.stageDir); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "staging directory missing")
	}

	prev := w.outputDir + ".prev"
	if _, err := os.Stat(prev); err == nil {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("Failed to remove previous backup", "path", prev, "error", err)
		}
	}
	if _, err := os.Stat(w.outputDir); err == nil {
		if err := os.Rename(w.outputDir, prev); err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "backup existing output")
		}
	}
	if err := os.Rename(w.stageDir, w.outputDir); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "promote staging")
	}
	w.stageDir = ""

	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove previous backup", "path", prev, "error", err)
	}
	slog.Debug("Promoted staging directory", "output", w.outputDir)
	return nil
}

// Abort removes the staging directory after a failed build.
func (w *Writer) Abort() {
	if w.stageDir == "" {
		return
	}
	if err := os.RemoveAll(w.stageDir); err != nil {
		slog.Warn("Failed to remove staging directory", "path", w.stageDir, "error", err)
	}
	w.stageDir = ""
}
