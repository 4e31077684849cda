package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/sitesmith/internal/theme"
)

// ThemeCmd groups theme management subcommands.
type ThemeCmd struct {
	Install ThemeInstallCmd `cmd:"" help:"Install a theme from a git repository"`
}

// ThemeInstallCmd clones a theme into themes/<name>.
type ThemeInstallCmd struct {
	URL string `arg:"" help:"Git URL of the theme repository"`
}

func (t *ThemeInstallCmd) Run(_ *Global, root *CLI) error {
	siteRoot := filepath.Dir(root.Config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name, err := theme.Install(ctx, siteRoot, t.URL)
	if err != nil {
		return err
	}
	fmt.Printf("Installed theme %q; set theme = %q in %s to activate it\n", name, name, root.Config)
	return nil
}
