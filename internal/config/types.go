package config

import (
	"sort"
	"time"
)

// Site is the process-wide site configuration. It is constructed once by
// Load, validated, and treated as read-only by every downstream stage. It is
// always passed explicitly; there is no package-level instance, so parallel
// test builds can carry different configurations in the same process.
type Site struct {
	BaseURL      string              `toml:"baseURL" yaml:"baseURL"`
	Title        string              `toml:"title" yaml:"title"`
	Theme        string              `toml:"theme,omitempty" yaml:"theme,omitempty"`
	LanguageCode string              `toml:"languageCode,omitempty" yaml:"languageCode,omitempty"`
	BuildDrafts  bool                `toml:"buildDrafts" yaml:"buildDrafts"`
	BuildFuture  bool                `toml:"buildFuture" yaml:"buildFuture"`
	FeedLimit    int                 `toml:"feed_limit,omitempty" yaml:"feed_limit,omitempty"`
	Outputs      map[string][]string `toml:"outputs,omitempty" yaml:"outputs,omitempty"`
	Params       map[string]any      `toml:"params,omitempty" yaml:"params,omitempty"`
	Menu         MenuConfig          `toml:"menu,omitempty" yaml:"menu,omitempty"`
	Markup       MarkupConfig        `toml:"markup,omitempty" yaml:"markup,omitempty"`
	Serve        ServeConfig         `toml:"serve,omitempty" yaml:"serve,omitempty"`
}

// MenuConfig holds named menus. Only "main" is rendered by the default
// theme, but additional menus pass through to templates untouched.
type MenuConfig struct {
	Main []MenuEntry `toml:"main,omitempty" yaml:"main,omitempty"`
}

// MenuEntry is a single navigation entry. Weight defines ordering; ties keep
// insertion order (sort is stable).
type MenuEntry struct {
	Name   string `toml:"name" yaml:"name"`
	URL    string `toml:"url" yaml:"url"`
	Weight int    `toml:"weight" yaml:"weight"`
}

// MarkupConfig holds rendering options passed through to the markdown engine.
type MarkupConfig struct {
	// UnsafeHTML permits raw HTML in markdown bodies to pass through
	// unescaped (mirrors Hugo's markup.goldmark.renderer.unsafe).
	UnsafeHTML bool `toml:"unsafeHTML" yaml:"unsafeHTML"`
}

// ServeConfig tunes the local preview server.
type ServeConfig struct {
	Addr string `toml:"addr,omitempty" yaml:"addr,omitempty"`
	// RebuildEvery is a duration string ("30m") triggering periodic rebuilds
	// so future-dated posts publish when their time arrives. Empty disables
	// the schedule.
	RebuildEvery string `toml:"rebuild_every,omitempty" yaml:"rebuild_every,omitempty"`
	Metrics      bool   `toml:"metrics" yaml:"metrics"`
	// DebounceMillis collapses filesystem event bursts into one rebuild.
	DebounceMillis int `toml:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty"`
}

// RebuildInterval parses RebuildEvery. Zero means no periodic rebuild.
func (sc ServeConfig) RebuildInterval() time.Duration {
	if sc.RebuildEvery == "" {
		return 0
	}
	d, err := time.ParseDuration(sc.RebuildEvery)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// SortedMenu returns the main menu ordered by weight ascending, ties broken
// by insertion order.
func (s *Site) SortedMenu() []MenuEntry {
	out := make([]MenuEntry, len(s.Menu.Main))
	copy(out, s.Menu.Main)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	return out
}

// OutputsFor returns the configured output formats for a page kind, falling
// back to defaults when the kind is not configured.
func (s *Site) OutputsFor(kind string) []string {
	if formats, ok := s.Outputs[kind]; ok {
		return formats
	}
	switch kind {
	case "home":
		return []string{"html", "rss", "json"}
	default:
		return []string{"html"}
	}
}

// FeedEnabled reports whether the home outputs include the given format.
func (s *Site) FeedEnabled(format string) bool {
	for _, f := range s.OutputsFor("home") {
		if f == format {
			return true
		}
	}
	return false
}
