package site

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitesmith/internal/content"
)

func item(slug string, date string) *content.Item {
	it := &content.Item{Slug: slug, SourcePath: slug + ".md"}
	if date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		it.Meta.Date = t
		it.Meta.HasDate = true
	}
	return it
}

func postsOf(items ...*content.Item) []*Post {
	posts := make([]*Post, 0, len(items))
	for _, it := range items {
		posts = append(posts, &Post{Item: it})
	}
	return posts
}

func slugsOf(posts []*Post) []string {
	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Item.Slug)
	}
	return slugs
}

func TestSortPostsDateDescending(t *testing.T) {
	posts := postsOf(
		item("first", "2024-01-03"),
		item("oldest", "2024-01-01"),
		item("middle", "2024-01-02"),
	)
	SortPosts(posts)
	require.Equal(t, []string{"first", "middle", "oldest"}, slugsOf(posts))
}

func TestSortPostsTieBreakSlugAscending(t *testing.T) {
	posts := postsOf(
		item("zeta", "2024-01-01"),
		item("alpha", "2024-01-01"),
	)
	SortPosts(posts)
	require.Equal(t, []string{"alpha", "zeta"}, slugsOf(posts))
}

func TestSortPostsUndatedLast(t *testing.T) {
	posts := postsOf(
		item("undated-b", ""),
		item("dated", "2020-05-01"),
		item("undated-a", ""),
	)
	SortPosts(posts)
	require.Equal(t, []string{"dated", "undated-a", "undated-b"}, slugsOf(posts))
}
