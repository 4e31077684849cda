package site

import (
	"encoding/json"
	"encoding/xml"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitesmith/internal/config"
	"git.home.luguber.info/inful/sitesmith/internal/content"
	"git.home.luguber.info/inful/sitesmith/internal/errors"
	"git.home.luguber.info/inful/sitesmith/internal/theme"
)

func testConfig(t *testing.T) *config.Site {
	t.Helper()
	cfg := &config.Site{
		BaseURL:      "https://example.test/",
		Title:        "Test Blog",
		LanguageCode: "en-us",
		FeedLimit:    15,
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func testAssembler(t *testing.T, cfg *config.Site) *Assembler {
	t.Helper()
	th, err := theme.Load(t.TempDir(), "")
	require.NoError(t, err)
	buildTime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewAssembler(cfg, th, buildTime)
}

func post(slug, date, title string, tags ...string) *Post {
	it := item(slug, date)
	it.Meta.Title = title
	it.Meta.Tags = tags
	return &Post{Item: it, HTML: template.HTML("<p>" + title + "</p>")}
}

func pageByPath(t *testing.T, pages []*Page, outPath string) *Page {
	t.Helper()
	for _, p := range pages {
		if p.OutPath == outPath {
			return p
		}
	}
	t.Fatalf("no page with output path %q", outPath)
	return nil
}

// TestAssembleScenario covers the canonical two-post case: a.md dated
// 2024-01-01 and b.md dated 2024-01-02, both tagged "x". The index, the tag
// page, and the RSS feed must all list b before a.
func TestAssembleScenario(t *testing.T) {
	cfg := testConfig(t)
	a := testAssembler(t, cfg)

	posts := []*Post{
		post("a", "2024-01-01", "Post A", "x"),
		post("b", "2024-01-02", "Post B", "x"),
	}

	pages, errs := a.Assemble(posts)
	require.Zero(t, errs.Len(), errs.Summary())

	index := string(pageByPath(t, pages, "index.html").Body)
	bPos := strings.Index(index, "/posts/b/")
	aPos := strings.Index(index, "/posts/a/")
	require.Greater(t, bPos, -1)
	require.Greater(t, aPos, -1)
	require.Less(t, bPos, aPos, "index must list b before a")

	tagPage := string(pageByPath(t, pages, "tags/x/index.html").Body)
	require.Less(t, strings.Index(tagPage, "/posts/b/"), strings.Index(tagPage, "/posts/a/"))

	rss := pageByPath(t, pages, "index.xml").Body
	var feed struct {
		Channel struct {
			Items []struct {
				Link string `xml:"link"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	require.NoError(t, xml.Unmarshal(rss, &feed))
	require.Len(t, feed.Channel.Items, 2)
	require.Equal(t, "https://example.test/posts/b/", feed.Channel.Items[0].Link)
	require.Equal(t, "https://example.test/posts/a/", feed.Channel.Items[1].Link)
}

func TestAssemblePageCount(t *testing.T) {
	cfg := testConfig(t)
	a := testAssembler(t, cfg)

	posts := []*Post{
		post("a", "2024-01-01", "Post A", "x"),
		post("b", "2024-01-02", "Post B", "x", "y"),
	}

	pages, errs := a.Assemble(posts)
	require.Zero(t, errs.Len(), errs.Summary())

	// 2 post pages + index + archive + tags index + 2 tag pages +
	// categories index + rss + json + sitemap = 11
	require.Len(t, pages, 11)

	seen := map[string]bool{}
	for _, p := range pages {
		require.False(t, seen[p.OutPath], "duplicate output path %s", p.OutPath)
		seen[p.OutPath] = true
	}
}

func TestAssembleTagIndexCompleteness(t *testing.T) {
	cfg := testConfig(t)
	a := testAssembler(t, cfg)

	posts := []*Post{
		post("a", "2024-01-01", "Post A", "x"),
		post("b", "2024-01-02", "Post B", "x", "y"),
		post("c", "2024-01-03", "Post C", "y"),
	}

	pages, errs := a.Assemble(posts)
	require.Zero(t, errs.Len(), errs.Summary())

	xPage := string(pageByPath(t, pages, "tags/x/index.html").Body)
	require.Contains(t, xPage, "/posts/a/")
	require.Contains(t, xPage, "/posts/b/")
	require.NotContains(t, xPage, "/posts/c/")

	yPage := string(pageByPath(t, pages, "tags/y/index.html").Body)
	require.Contains(t, yPage, "/posts/b/")
	require.Contains(t, yPage, "/posts/c/")
	require.NotContains(t, yPage, "/posts/a/")
}

func TestAssembleLayoutPageExcludedFromListings(t *testing.T) {
	cfg := testConfig(t)
	a := testAssembler(t, cfg)

	about := post("about", "", "About")
	about.Item.Meta.Layout = content.LayoutPage

	posts := []*Post{
		post("a", "2024-01-01", "Post A"),
		about,
	}

	pages, errs := a.Assemble(posts)
	require.Zero(t, errs.Len(), errs.Summary())

	// Standalone pages live at the root, not under posts/.
	pageByPath(t, pages, "about/index.html")

	index := string(pageByPath(t, pages, "index.html").Body)
	require.NotContains(t, index, "/about/")

	var feed struct {
		Channel struct {
			Items []struct{} `xml:"item"`
		} `xml:"channel"`
	}
	require.NoError(t, xml.Unmarshal(pageByPath(t, pages, "index.xml").Body, &feed))
	require.Len(t, feed.Channel.Items, 1)
}

// TestAssembleTermWithoutSlug covers taxonomy terms whose slug folds to
// nothing (a CJK-only tag): the term must be rejected with a recorded error
// instead of landing on the taxonomy index path.
func TestAssembleTermWithoutSlug(t *testing.T) {
	cfg := testConfig(t)
	a := testAssembler(t, cfg)

	pages, errs := a.Assemble([]*Post{post("stats", "2024-01-01", "Stats", "统计")})
	require.Equal(t, 1, errs.Len(), errs.Summary())

	for _, p := range pages {
		require.NotEqual(t, "tags//index.html", p.OutPath)
	}

	// The taxonomy index and the post page itself are still produced, and
	// the post page does not link a term listing that was never written.
	pageByPath(t, pages, "tags/index.html")
	single := string(pageByPath(t, pages, "posts/stats/index.html").Body)
	require.NotContains(t, single, "tags//")
}

func TestPageSetUniquenessAfterCleaning(t *testing.T) {
	errs := &errors.List{}
	ps := newPageSet(errs)

	ps.add("tags//index.html", []byte("a"))
	ps.add("tags/index.html", []byte("b"))

	require.Equal(t, 1, errs.Len())
	require.Len(t, ps.pages, 1)
	require.Equal(t, "tags/index.html", ps.pages[0].OutPath)
}

func TestAssembleFeedLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.FeedLimit = 2
	a := testAssembler(t, cfg)

	posts := []*Post{
		post("a", "2024-01-01", "Post A"),
		post("b", "2024-01-02", "Post B"),
		post("c", "2024-01-03", "Post C"),
	}

	pages, errs := a.Assemble(posts)
	require.Zero(t, errs.Len(), errs.Summary())

	var feed struct {
		Items []struct {
			URL string `json:"url"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(pageByPath(t, pages, "feed.json").Body, &feed))
	require.Len(t, feed.Items, 2)
	require.Equal(t, "https://example.test/posts/c/", feed.Items[0].URL)
	require.Equal(t, "https://example.test/posts/b/", feed.Items[1].URL)
}

func TestAssembleFeedsDisabledByOutputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Outputs = map[string][]string{"home": {"html"}}
	a := testAssembler(t, cfg)

	pages, errs := a.Assemble([]*Post{post("a", "2024-01-01", "Post A")})
	require.Zero(t, errs.Len(), errs.Summary())

	for _, p := range pages {
		require.NotEqual(t, "index.xml", p.OutPath)
		require.NotEqual(t, "feed.json", p.OutPath)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	cfg := testConfig(t)

	build := func() map[string]string {
		a := testAssembler(t, cfg)
		pages, errs := a.Assemble([]*Post{
			post("a", "2024-01-01", "Post A", "x"),
			post("b", "2024-01-02", "Post B", "x"),
		})
		require.Zero(t, errs.Len())
		out := map[string]string{}
		for _, p := range pages {
			out[p.OutPath] = string(p.Body)
		}
		return out
	}

	require.Equal(t, build(), build())
}

func TestFilterPublished(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	draft := item("draft", "2024-01-01")
	draft.Meta.Draft = true
	future := item("future", "2030-01-01")
	ok := item("ok", "2024-01-01")

	items := []*content.Item{draft, future, ok}

	published := FilterPublished(items, cfg, now)
	require.Len(t, published, 1)
	require.Equal(t, "ok", published[0].Slug)

	cfg.BuildDrafts = true
	cfg.BuildFuture = true
	published = FilterPublished(items, cfg, now)
	require.Len(t, published, 3)
}

// TestAssembleDraftNeverLeaks asserts the filter contract end to end: a
// draft filtered out upstream appears in no listing, tag page, or feed.
func TestAssembleDraftNeverLeaks(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	draft := item("secret", "2024-01-03")
	draft.Meta.Draft = true
	draft.Meta.Tags = []string{"x"}
	visible := item("visible", "2024-01-01")
	visible.Meta.Tags = []string{"x"}

	published := FilterPublished([]*content.Item{draft, visible}, cfg, now)

	var posts []*Post
	for _, it := range published {
		posts = append(posts, &Post{Item: it, HTML: "<p>body</p>"})
	}

	a := testAssembler(t, cfg)
	pages, errs := a.Assemble(posts)
	require.Zero(t, errs.Len(), errs.Summary())

	for _, p := range pages {
		require.NotContains(t, p.OutPath, "secret")
		require.NotContains(t, string(p.Body), "secret")
	}
}
