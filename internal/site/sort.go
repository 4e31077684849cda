package site

import (
	"sort"

	"git.home.luguber.info/inful/sitesmith/internal/content"
)

// SortPosts orders posts for listings and feeds: date descending, equal
// dates tie-broken by slug ascending. Posts without a date sort after all
// dated ones, ordered by slug ascending, so builds are deterministic.
func SortPosts(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return listingLess(posts[i].Item, posts[j].Item)
	})
}

func listingLess(a, b *content.Item) bool {
	switch {
	case a.Meta.HasDate && !b.Meta.HasDate:
		return true
	case !a.Meta.HasDate && b.Meta.HasDate:
		return false
	case a.Meta.HasDate && b.Meta.HasDate:
		if !a.Meta.Date.Equal(b.Meta.Date) {
			return a.Meta.Date.After(b.Meta.Date)
		}
	}
	return a.Slug < b.Slug
}
