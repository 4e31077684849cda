package site

import (
	"log/slog"
	"path"
	"time"

	"git.home.luguber.info/inful/sitesmith/internal/config"
	"git.home.luguber.info/inful/sitesmith/internal/content"
	"git.home.luguber.info/inful/sitesmith/internal/errors"
	"git.home.luguber.info/inful/sitesmith/internal/theme"
)

// Assembler performs the global pass over the complete rendered item set.
// It must observe every item before emitting any page: listing membership
// and ordering depend on global data.
type Assembler struct {
	cfg       *config.Site
	theme     *theme.Theme
	buildTime time.Time
}

// NewAssembler creates an assembler. buildTime is injected so repeated
// builds over unchanged input produce identical output.
func NewAssembler(cfg *config.Site, th *theme.Theme, buildTime time.Time) *Assembler {
	return &Assembler{cfg: cfg, theme: th, buildTime: buildTime}
}

// Assemble produces the full output page set from the published, rendered
// items. Per-page template failures are recorded and skipped; the remaining
// pages are still produced.
func (a *Assembler) Assemble(rendered []*Post) ([]*Page, *errors.List) {
	errs := &errors.List{}

	var posts []*Post // listed: layout post or default
	var standalone []*Post
	for _, p := range rendered {
		if p.Item.Meta.Layout == content.LayoutPage {
			standalone = append(standalone, p)
		} else {
			posts = append(posts, p)
		}
	}
	SortPosts(posts)
	SortPosts(standalone)

	views := make([]*PostView, len(posts))
	for i, p := range posts {
		views[i] = a.postView(p)
	}

	out := newPageSet(errs)

	// Per-item pages.
	for _, p := range append(append([]*Post{}, posts...), standalone...) {
		view := a.postView(p)
		body, err := a.theme.Execute("single", a.data(view.Title, view.Description, func(d *templateData) {
			d.Page = view
		}))
		if err != nil {
			errs.Add(errors.RenderFailed(p.Item.SourcePath, err))
			continue
		}
		out.add(relPath(p.Item)+"index.html", body)
	}

	// Main listing and archive.
	if body, err := a.theme.Execute("index", a.data("", "", func(d *templateData) {
		d.Posts = views
	})); err != nil {
		errs.Add(errors.RenderFailed("index.html", err))
	} else {
		out.add("index.html", body)
	}

	if body, err := a.theme.Execute("list", a.data("Archive", "", func(d *templateData) {
		d.Posts = views
	})); err != nil {
		errs.Add(errors.RenderFailed("archive/index.html", err))
	} else {
		out.add("archive/index.html", body)
	}

	// Taxonomies.
	a.assembleTaxonomy(out, errs, "Tags", "tags", posts, func(i *content.Item) []string { return i.Meta.Tags })
	a.assembleTaxonomy(out, errs, "Categories", "categories", posts, func(i *content.Item) []string { return i.Meta.Categories })

	// Feeds and sitemap.
	if a.cfg.FeedEnabled("rss") {
		if body, err := a.renderRSS(posts); err != nil {
			errs.Add(errors.RenderFailed("index.xml", err))
		} else {
			out.add("index.xml", body)
		}
	}
	if a.cfg.FeedEnabled("json") {
		if body, err := a.renderJSONFeed(posts); err != nil {
			errs.Add(errors.RenderFailed("feed.json", err))
		} else {
			out.add("feed.json", body)
		}
	}
	if body, err := a.renderSitemap(append(append([]*Post{}, posts...), standalone...)); err != nil {
		errs.Add(errors.RenderFailed("sitemap.xml", err))
	} else {
		out.add("sitemap.xml", body)
	}

	slog.Debug("Assembled site", "posts", len(posts), "pages", len(standalone), "outputs", len(out.pages))
	return out.pages, errs
}

func (a *Assembler) assembleTaxonomy(out *pageSet, errs *errors.List, title, path string, posts []*Post, keyFn func(*content.Item) []string) {
	idx := BuildIndex(posts, keyFn)
	terms := idx.Terms()

	termViews := make([]TermView, 0, len(terms))
	for _, term := range terms {
		slug := content.Slugify(term)
		if slug == "" {
			// Non-Latin terms can fold to nothing; emitting them would land
			// on tags//index.html, which cleans to the taxonomy index path.
			errs.Add(errors.New(errors.CategoryParse, errors.SeverityError, "taxonomy term has no usable slug").
				WithContext("term", term).
				WithContext("taxonomy", path))
			continue
		}
		termViews = append(termViews, TermView{
			Name:  term,
			URL:   a.cfg.BaseURLPath() + path + "/" + slug + "/",
			Count: len(idx[term]),
		})

		members := idx[term]
		memberViews := make([]*PostView, len(members))
		for i, p := range members {
			memberViews[i] = a.postView(p)
		}
		body, err := a.theme.Execute("list", a.data(term, "", func(d *templateData) {
			d.Posts = memberViews
		}))
		if err != nil {
			errs.Add(errors.RenderFailed(path+"/"+slug+"/index.html", err))
			continue
		}
		out.add(path+"/"+slug+"/index.html", body)
	}

	body, err := a.theme.Execute("taxonomy", a.data(title, "", func(d *templateData) {
		d.Terms = termViews
	}))
	if err != nil {
		errs.Add(errors.RenderFailed(path+"/index.html", err))
		return
	}
	out.add(path+"/index.html", body)
}

func (a *Assembler) postView(p *Post) *PostView {
	item := p.Item
	rel := relPath(item)
	view := &PostView{
		Title:        item.Meta.Title,
		Date:         item.Meta.Date,
		HasDate:      item.Meta.HasDate,
		Description:  item.Meta.Description,
		Permalink:    a.cfg.BaseURL + rel,
		RelPermalink: a.cfg.BaseURLPath() + rel,
		Content:      p.HTML,
	}
	// Terms without a usable slug have no listing page to link.
	for _, t := range item.Meta.Tags {
		if slug := content.Slugify(t); slug != "" {
			view.Tags = append(view.Tags, TermRef{Name: t, Slug: slug})
		}
	}
	for _, c := range item.Meta.Categories {
		if slug := content.Slugify(c); slug != "" {
			view.Categories = append(view.Categories, TermRef{Name: c, Slug: slug})
		}
	}
	if view.Title == "" {
		view.Title = item.Slug
	}
	return view
}

func (a *Assembler) data(title, description string, mutate func(*templateData)) *templateData {
	d := &templateData{
		Site:        a.cfg,
		Menu:        a.cfg.SortedMenu(),
		Title:       title,
		Description: description,
		BuildTime:   a.buildTime,
	}
	if mutate != nil {
		mutate(d)
	}
	return d
}

// pageSet collects output pages and enforces output-path uniqueness.
type pageSet struct {
	pages []*Page
	seen  map[string]struct{}
	errs  *errors.List
}

func newPageSet(errs *errors.List) *pageSet {
	return &pageSet{seen: make(map[string]struct{}), errs: errs}
}

func (ps *pageSet) add(outPath string, body []byte) {
	// Uniqueness must hold for the cleaned path the writer will use.
	outPath = path.Clean(outPath)
	if _, dup := ps.seen[outPath]; dup {
		ps.errs.Add(errors.New(errors.CategoryInternal, errors.SeverityError, "duplicate output path").
			WithContext("path", outPath))
		return
	}
	ps.seen[outPath] = struct{}{}
	ps.pages = append(ps.pages, &Page{OutPath: outPath, Body: body})
}
