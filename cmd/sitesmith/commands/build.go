package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/sitesmith/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Output directory for the generated site" default:"./public"`
	Drafts  bool   `short:"D" help:"Include content marked draft"`
	Future  bool   `short:"F" help:"Include content with a future publish date"`
	Force   bool   `help:"Rebuild even when input is unchanged"`
	BaseURL string `name:"base-url" help:"Override the configured base URL"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, siteRoot, err := loadSite(root.Config)
	if err != nil {
		return err
	}
	// CLI flags mirror the config booleans and take precedence when set.
	if b.Drafts {
		cfg.BuildDrafts = true
	}
	if b.Future {
		cfg.BuildFuture = true
	}
	if b.BaseURL != "" {
		if err := cfg.OverrideBaseURL(b.BaseURL); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := build.NewService(cfg, siteRoot, root.Config, resolveOutput(b.Output, siteRoot),
		build.WithForce(b.Force))
	report, err := svc.Run(ctx)
	if report != nil {
		fmt.Printf("Build %s: %d page(s) written, %d file(s) failed\n",
			report.Outcome, report.PagesWritten, len(report.Failures))
	}
	return err
}

// resolveOutput anchors the default output path at the site root; an
// explicit flag value is used as given.
func resolveOutput(output, siteRoot string) string {
	if output != "" && output != "./public" {
		return output
	}
	return filepath.Join(siteRoot, "public")
}
