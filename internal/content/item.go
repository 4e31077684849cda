// Package content implements the content store: discovery of markdown
// source files and parsing of frontmatter into typed items.
package content

import (
	"time"
)

// Item is one parsed content file. Items are immutable after parse; the
// whole set is rebuilt on every run.
type Item struct {
	// SourcePath is the item's identity: the path relative to the content root.
	SourcePath string
	Meta       PageMeta
	// Body is the raw markdown body with frontmatter removed.
	Body []byte
	// Slug is the derived URL path segment, unique across published items.
	Slug string
}

// Published reports whether the item appears in output for a build with the
// given reference time and override flags. Drafts are excluded unless
// buildDrafts; future-dated items are excluded unless buildFuture. Undated
// items are never "future" and therefore publish.
func (i *Item) Published(now time.Time, buildDrafts, buildFuture bool) bool {
	if i.Meta.Draft && !buildDrafts {
		return false
	}
	if i.Meta.HasDate && i.Meta.Date.After(now) && !buildFuture {
		return false
	}
	return true
}
