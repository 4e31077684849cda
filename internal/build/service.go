// Package build orchestrates the pipeline: parse (parallel) -> render
// (parallel) -> assemble (global barrier) -> publish (staged, atomic).
// Recoverable per-file errors are accumulated and surfaced together at the
// end; the build exits non-zero whenever any remain.
package build

import (
	"context"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitesmith/internal/config"
	"git.home.luguber.info/inful/sitesmith/internal/content"
	"git.home.luguber.info/inful/sitesmith/internal/errors"
	"git.home.luguber.info/inful/sitesmith/internal/markdown"
	"git.home.luguber.info/inful/sitesmith/internal/metrics"
	"git.home.luguber.info/inful/sitesmith/internal/publish"
	"git.home.luguber.info/inful/sitesmith/internal/site"
	"git.home.luguber.info/inful/sitesmith/internal/state"
	"git.home.luguber.info/inful/sitesmith/internal/theme"
)

// Service runs builds for one site root.
type Service struct {
	cfg        *config.Site
	root       string
	configPath string
	outputDir  string
	recorder   metrics.Recorder
	now        func() time.Time
	force      bool
	statePath  string
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock injects the reference clock. The reference time decides
// future-post exclusion and is embedded as the feed build date, so tests
// pin it for byte-identical output.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithForce disables the fingerprint early-skip.
func WithForce(force bool) Option {
	return func(s *Service) { s.force = force }
}

// WithStatePath overrides the state database location. Empty disables build
// history and early-skip.
func WithStatePath(path string) Option {
	return func(s *Service) { s.statePath = path }
}

// DefaultStatePath returns the state database location for a site root.
func DefaultStatePath(root string) string {
	return filepath.Join(root, ".sitesmith", "state.db")
}

// NewService creates a build service. root is the site root containing
// content/, static/, and themes/.
func NewService(cfg *config.Site, root, configPath, outputDir string, opts ...Option) *Service {
	s := &Service{
		cfg:        cfg,
		root:       filepath.Clean(root),
		configPath: configPath,
		outputDir:  filepath.Clean(outputDir),
		recorder:   metrics.NoopRecorder{},
		now:        time.Now,
		statePath:  DefaultStatePath(root),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one build. The returned error is nil only when every file
// parsed, rendered, and wrote cleanly; the report is returned in either
// case unless a fatal error aborted the build.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	started := s.now()
	buildID := uuid.NewString()
	logger := slog.With("build_id", buildID)
	logger.Info("Starting site build", "root", s.root, "output", s.outputDir)

	report := &Report{BuildID: buildID, Started: started}
	errs := &errors.List{}

	var store *state.Store
	if s.statePath != "" {
		var err error
		store, err = state.Open(s.statePath)
		if err != nil {
			logger.Warn("State store unavailable, continuing without it", "error", err)
		} else {
			defer func() { _ = store.Close() }()
		}
	}

	// Discovery.
	contentStore := content.NewStore(filepath.Join(s.root, "content"))
	paths, err := contentStore.Walk(ctx)
	if err != nil {
		return nil, err
	}
	report.ContentFiles = len(paths)

	// Early skip when nothing changed since the last promoted build.
	prints, err := computeFingerprints(s.configPath, contentStore.Root, paths)
	if err != nil {
		logger.Warn("Fingerprinting failed, skip detection disabled", "error", err)
		prints = nil
	}
	if store != nil && prints != nil && !s.force {
		if stored, err := store.Fingerprints(ctx); err == nil &&
			len(stored) > 0 && fingerprintsEqual(stored, prints) && outputIntact(s.outputDir) {
			logger.Info("Input unchanged since last build, skipping")
			report.Outcome = "skipped"
			report.DurationMS = time.Since(started).Milliseconds()
			s.recorder.IncBuildOutcome("skipped")
			return report, nil
		}
	}

	// Parse stage (parallel, per-file failures accumulated).
	items := s.parseStage(ctx, contentStore, paths, errs)
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryRuntime, errors.SeverityFatal, "build canceled")
	}

	published := site.FilterPublished(items, s.cfg, started)
	s.checkSlugUniqueness(published, errs)
	report.PublishedItems = len(published)

	// Render stage (parallel).
	posts := s.renderStage(ctx, published, errs)
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryRuntime, errors.SeverityFatal, "build canceled")
	}

	// Assemble stage: requires the complete item set.
	th, err := theme.Load(s.root, s.cfg.Theme)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryTheme, errors.SeverityFatal, "load theme")
	}
	assembleStart := s.now()
	pages, assembleErrs := site.NewAssembler(s.cfg, th, started).Assemble(posts)
	for _, e := range assembleErrs.Errors() {
		errs.Add(e)
	}
	s.recorder.ObserveStageDuration("assemble", s.now().Sub(assembleStart))

	// Publish stage: staged writes, atomic promote.
	writer := publish.NewWriter(s.outputDir)
	if err := writer.Begin(); err != nil {
		return nil, err
	}
	writer.CopyStatic(th.StaticFS(), errs)
	if st, statErr := os.Stat(filepath.Join(s.root, "static")); statErr == nil && st.IsDir() {
		writer.CopyStatic(os.DirFS(filepath.Join(s.root, "static")), errs)
	}
	written := writer.WritePages(ctx, pages, errs)
	report.PagesWritten = written

	if err := ctx.Err(); err != nil {
		writer.Abort()
		return nil, errors.Wrap(err, errors.CategoryRuntime, errors.SeverityFatal, "build canceled")
	}
	if written == 0 && len(pages) > 0 {
		// Nothing usable was produced; keep the previous output in place.
		writer.Abort()
		report.DurationMS = time.Since(started).Milliseconds()
		report.Failures = failuresFrom(errs)
		report.Outcome = "failed"
		s.recorder.IncBuildOutcome("failed")
		return report, errs.AsError()
	}
	if err := writer.Promote(); err != nil {
		writer.Abort()
		return nil, err
	}

	// Bookkeeping after a successful promote.
	report.DurationMS = time.Since(started).Milliseconds()
	report.Failures = failuresFrom(errs)
	report.Outcome = "success"
	if errs.Len() > 0 {
		report.Outcome = "partial"
	}
	if err := report.Write(s.outputDir); err != nil {
		logger.Warn("Failed to write build report", "error", err)
	}

	s.recorder.ObserveBuildDuration(time.Duration(report.DurationMS) * time.Millisecond)
	s.recorder.AddPagesWritten(written)
	s.recorder.IncBuildOutcome(report.Outcome)
	for _, e := range errs.Errors() {
		s.recorder.IncFileError(string(e.Category))
	}

	if store != nil {
		if prints != nil && errs.Len() == 0 {
			if err := store.SaveFingerprints(ctx, prints); err != nil {
				logger.Warn("Failed to save fingerprints", "error", err)
			}
		}
		if err := store.RecordBuild(ctx, state.BuildRecord{
			ID:       buildID,
			Started:  started,
			Duration: time.Duration(report.DurationMS) * time.Millisecond,
			Pages:    written,
			Failed:   errs.Len(),
			Outcome:  report.Outcome,
		}); err != nil {
			logger.Warn("Failed to record build history", "error", err)
		}
	}

	logger.Info("Build finished",
		"outcome", report.Outcome,
		"pages", written,
		"errors", errs.Len(),
		"duration_ms", report.DurationMS)

	if summary := errs.Summary(); summary != "" {
		logger.Warn(summary)
	}
	return report, errs.AsError()
}

// parseStage fans the discovered files out over a worker pool.
func (s *Service) parseStage(ctx context.Context, store *content.Store, paths []string, errs *errors.List) []*content.Item {
	start := s.now()
	defer func() { s.recorder.ObserveStageDuration("parse", s.now().Sub(start)) }()

	jobs := make(chan string)
	var mu sync.Mutex
	var items []*content.Item
	var wg sync.WaitGroup

	for i := 0; i < poolSize(len(paths)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range jobs {
				item, err := store.ParseFile(rel)
				if err != nil {
					errs.Add(err)
					continue
				}
				mu.Lock()
				items = append(items, item)
				mu.Unlock()
			}
		}()
	}

	for _, rel := range paths {
		if ctx.Err() != nil {
			break
		}
		jobs <- rel
	}
	close(jobs)
	wg.Wait()

	// Restore deterministic order after the parallel stage.
	sortItemsBySource(items)
	return items
}

// renderStage converts published item bodies to HTML in parallel.
func (s *Service) renderStage(ctx context.Context, items []*content.Item, errs *errors.List) []*site.Post {
	start := s.now()
	defer func() { s.recorder.ObserveStageDuration("render", s.now().Sub(start)) }()

	renderer := markdown.NewRenderer(markdown.Options{UnsafeHTML: s.cfg.Markup.UnsafeHTML})

	jobs := make(chan *content.Item)
	var mu sync.Mutex
	var posts []*site.Post
	var wg sync.WaitGroup

	for i := 0; i < poolSize(len(items)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				html, err := renderer.Render(item.Body)
				if err != nil {
					errs.Add(errors.RenderFailed(item.SourcePath, err))
					continue
				}
				mu.Lock()
				posts = append(posts, &site.Post{Item: item, HTML: template.HTML(html)})
				mu.Unlock()
			}
		}()
	}

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		jobs <- item
	}
	close(jobs)
	wg.Wait()

	return posts
}

// checkSlugUniqueness records a parse error for every published item whose
// slug collides with an earlier one (by source path order).
func (s *Service) checkSlugUniqueness(items []*content.Item, errs *errors.List) {
	seen := make(map[string]string, len(items))
	for _, item := range items {
		if other, dup := seen[item.Slug]; dup {
			errs.Add(errors.DuplicateSlug(item.Slug, item.SourcePath, other))
			continue
		}
		seen[item.Slug] = item.SourcePath
	}
}

func poolSize(jobs int) int {
	n := runtime.NumCPU()
	if jobs < n {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

func sortItemsBySource(items []*content.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].SourcePath < items[j].SourcePath })
}
