// Package serve runs the local preview server: a static file server over
// the build output with filesystem-watch rebuilds and an optional periodic
// rebuild schedule so future-dated posts publish when their time arrives.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sitesmith/internal/build"
	"git.home.luguber.info/inful/sitesmith/internal/config"
	"git.home.luguber.info/inful/sitesmith/internal/metrics"
)

// Server is the preview server for one site root.
type Server struct {
	cfg        *config.Site
	root       string
	configPath string
	outputDir  string
	recorder   metrics.Recorder
	promRec    *metrics.PrometheusRecorder

	// Flag overrides survive config reloads.
	forceDrafts bool
	forceFuture bool

	mu        sync.RWMutex
	lastError error
}

// New creates a preview server. When cfg.Serve.Metrics is set, a Prometheus
// recorder is attached and exposed at /metrics.
func New(cfg *config.Site, root, configPath, outputDir string) *Server {
	s := &Server{
		cfg:         cfg,
		root:        filepath.Clean(root),
		configPath:  configPath,
		outputDir:   filepath.Clean(outputDir),
		recorder:    metrics.NoopRecorder{},
		forceDrafts: cfg.BuildDrafts,
		forceFuture: cfg.BuildFuture,
	}
	if cfg.Serve.Metrics {
		s.promRec = metrics.NewPrometheusRecorder()
		s.recorder = s.promRec
	}
	return s
}

// Run performs an initial build, then serves and rebuilds until the context
// is canceled. Build failures keep the last good output serving.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = s.cfg.Serve.Addr
	}

	s.rebuild(ctx)

	watcher, err := newWatcher(
		filepath.Join(s.root, "content"),
		filepath.Join(s.root, "static"),
		filepath.Join(s.root, "themes"),
		s.configPath,
	)
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	debounce := time.Duration(s.cfg.Serve.DebounceMillis) * time.Millisecond
	rebuildReq, trigger := newDebouncer(debounce)

	scheduler, err := s.startScheduler(trigger)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() { _ = scheduler.Shutdown() }()
	}

	httpServer := &http.Server{Addr: addr, Handler: s.handler()}
	go func() {
		slog.Info("Preview server listening", "addr", addr, "output", s.outputDir)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(event.Name) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories must be added to the watch set.
				_ = addDirsRecursive(watcher, event.Name)
			}
			slog.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		case <-rebuildReq:
			s.rebuild(ctx)
		}
	}
}

// startScheduler installs the periodic rebuild job when configured.
func (s *Server) startScheduler(trigger func()) (gocron.Scheduler, error) {
	interval := s.cfg.Serve.RebuildInterval()
	if interval == 0 {
		return nil, nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(trigger),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
	}
	scheduler.Start()
	slog.Info("Periodic rebuild scheduled", "every", interval.String())
	return scheduler, nil
}

// rebuild reloads the configuration and runs one build, preserving the last
// good output and configuration on failure.
func (s *Server) rebuild(ctx context.Context) {
	if fresh, err := config.Load(s.configPath); err != nil {
		slog.Warn("Configuration reload failed, keeping previous", "error", err)
	} else {
		fresh.BuildDrafts = fresh.BuildDrafts || s.forceDrafts
		fresh.BuildFuture = fresh.BuildFuture || s.forceFuture
		s.cfg = fresh
	}

	svc := build.NewService(s.cfg, s.root, s.configPath, s.outputDir,
		build.WithRecorder(s.recorder),
		build.WithForce(true))
	_, err := svc.Run(ctx)

	s.mu.Lock()
	s.lastError = err
	s.mu.Unlock()

	if err != nil {
		slog.Error("Rebuild failed, serving last good output", "error", err)
	}
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.outputDir)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.RLock()
		err := s.lastError
		s.mu.RUnlock()
		if err != nil {
			http.Error(w, "last build failed: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.promRec != nil {
		mux.Handle("/metrics", s.promRec.Handler())
	}
	return mux
}
