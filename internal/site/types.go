// Package site implements the assembler: the global pass that turns the
// complete set of rendered content items into the full set of output pages,
// including listings, taxonomy pages, feeds, and the sitemap.
package site

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/sitesmith/internal/config"
	"git.home.luguber.info/inful/sitesmith/internal/content"
)

// Post couples a content item with its rendered HTML body.
type Post struct {
	Item *content.Item
	HTML template.HTML
}

// Page is a single output file ready for the writer.
type Page struct {
	// OutPath is the path relative to the output root, unique per build.
	OutPath string
	Body    []byte
}

// TermRef is a tag or category reference rendered inside a post page.
type TermRef struct {
	Name string
	Slug string
}

// TermView is one entry on a taxonomy index page.
type TermView struct {
	Name  string
	URL   string
	Count int
}

// PostView is the template-facing projection of a post.
type PostView struct {
	Title        string
	Date         time.Time
	HasDate      bool
	Description  string
	Permalink    string // absolute URL
	RelPermalink string // path-only URL under the base URL
	Content      template.HTML
	Tags         []TermRef
	Categories   []TermRef
}

// templateData is the payload handed to every theme template.
type templateData struct {
	Site        *config.Site
	Menu        []config.MenuEntry
	Title       string
	Description string
	Page        *PostView
	Posts       []*PostView
	Terms       []TermView
	BuildTime   time.Time
}

// FilterPublished returns the items visible for a build with the given
// reference time, honoring the draft/future override flags.
func FilterPublished(items []*content.Item, cfg *config.Site, now time.Time) []*content.Item {
	out := make([]*content.Item, 0, len(items))
	for _, item := range items {
		if item.Published(now, cfg.BuildDrafts, cfg.BuildFuture) {
			out = append(out, item)
		}
	}
	return out
}

// relPath returns the output-relative directory path for an item.
// Posts (and default-layout items) live under posts/<slug>/; pages at /<slug>/.
func relPath(item *content.Item) string {
	if item.Meta.Layout == content.LayoutPage {
		return item.Slug + "/"
	}
	return "posts/" + item.Slug + "/"
}
