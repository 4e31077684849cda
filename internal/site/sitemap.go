package site

import (
	"encoding/xml"
	"time"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap emits a sitemap covering the home page and every item page.
func (a *Assembler) renderSitemap(all []*Post) ([]byte, error) {
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: a.cfg.BaseURL}},
	}
	for _, p := range all {
		u := sitemapURL{Loc: a.cfg.BaseURL + relPath(p.Item)}
		if p.Item.Meta.HasDate {
			u.LastMod = p.Item.Meta.Date.Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, u)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
