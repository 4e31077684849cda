package site

import (
	"sort"

	"git.home.luguber.info/inful/sitesmith/internal/content"
)

// Index maps a taxonomy term to the posts carrying it, in listing order.
// It is rebuilt fully on every run; values reference the shared post set.
type Index map[string][]*Post

// BuildIndex partitions posts by the terms returned by keyFn. Posts must
// already be in listing order; member slices preserve that order.
func BuildIndex(posts []*Post, keyFn func(*content.Item) []string) Index {
	idx := make(Index)
	for _, p := range posts {
		for _, term := range keyFn(p.Item) {
			idx[term] = append(idx[term], p)
		}
	}
	return idx
}

// Terms returns the index keys sorted by their slug, so taxonomy pages are
// emitted deterministically.
func (idx Index) Terms() []string {
	terms := make([]string, 0, len(idx))
	for t := range idx {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		si, sj := content.Slugify(terms[i]), content.Slugify(terms[j])
		if si != sj {
			return si < sj
		}
		return terms[i] < terms[j]
	})
	return terms
}
