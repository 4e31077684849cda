package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitesmith/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file path" default:"config.toml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site into the output directory"`
	Init    InitCmd    `cmd:"" help:"Initialize a new site skeleton"`
	Serve   ServeCmd   `cmd:"" help:"Serve the site locally with rebuild on change"`
	Check   CheckCmd   `cmd:"" help:"Build and verify internal links in the output"`
	Theme   ThemeCmd   `cmd:"" help:"Manage themes"`
	History HistoryCmd `cmd:"" help:"Show recent build history"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadSite loads the configuration and returns it with the site root (the
// configuration file's directory).
func loadSite(configPath string) (*config.Site, string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	root := filepath.Dir(configPath)
	if root == "" {
		root = "."
	}
	return cfg, root, nil
}
