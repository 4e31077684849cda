package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitesmith/internal/build"
	"git.home.luguber.info/inful/sitesmith/internal/state"
)

// HistoryCmd implements the 'history' command: it lists recent builds from
// the state database, most recent first.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of builds to show" default:"10"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	siteRoot := filepath.Dir(root.Config)
	store, err := state.Open(build.DefaultStatePath(siteRoot))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.RecentBuilds(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  %-8s  %4d page(s)  %d failed  %6dms  %s\n",
			rec.Started.Format(time.RFC3339), rec.Outcome,
			rec.Pages, rec.Failed, rec.Duration.Milliseconds(), rec.ID)
	}
	return nil
}
