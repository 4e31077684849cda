package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/sitesmith/internal/build"
	"git.home.luguber.info/inful/sitesmith/internal/errors"
	"git.home.luguber.info/inful/sitesmith/internal/linkcheck"
)

// CheckCmd implements the 'check' command: build, then verify that every
// internal link in the output resolves.
type CheckCmd struct {
	Output  string `short:"o" help:"Output directory for the generated site" default:"./public"`
	NoBuild bool   `name:"no-build" help:"Check the existing output without rebuilding"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, siteRoot, err := loadSite(root.Config)
	if err != nil {
		return err
	}

	outputDir := resolveOutput(c.Output, siteRoot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !c.NoBuild {
		svc := build.NewService(cfg, siteRoot, root.Config, outputDir, build.WithForce(true))
		if _, err := svc.Run(ctx); err != nil {
			return err
		}
	}

	broken, err := linkcheck.Check(outputDir, cfg.BaseURLPath())
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "link check failed")
	}
	// Also verify links as authored, before the renderer touched them.
	srcBroken, err := linkcheck.CheckSources(ctx, filepath.Join(siteRoot, "content"), outputDir, cfg.BaseURLPath())
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "source link check failed")
	}
	broken = append(broken, srcBroken...)
	if len(broken) > 0 {
		for _, b := range broken {
			fmt.Printf("broken link in %s: %s\n", b.Page, b.Destination)
		}
		return errors.New(errors.CategoryValidation, errors.SeverityError,
			fmt.Sprintf("%d broken internal link(s)", len(broken)))
	}

	fmt.Println("All internal links resolve")
	return nil
}
