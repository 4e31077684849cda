package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitesmith/internal/serve"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr   string `help:"Listen address (overrides serve.addr)"`
	Output string `short:"o" help:"Output directory for the generated site" default:"./public"`
	Drafts bool   `short:"D" help:"Include content marked draft" default:"true" negatable:""`
	Future bool   `short:"F" help:"Include content with a future publish date"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, siteRoot, err := loadSite(root.Config)
	if err != nil {
		return err
	}
	// Preview builds include drafts by default; --no-drafts restores the
	// production view.
	if s.Drafts {
		cfg.BuildDrafts = true
	}
	if s.Future {
		cfg.BuildFuture = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := serve.New(cfg, siteRoot, root.Config, resolveOutput(s.Output, siteRoot))
	return server.Run(ctx, s.Addr)
}
