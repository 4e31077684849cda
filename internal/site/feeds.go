package site

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"time"
	"unicode/utf8"
)

// RSS 2.0 document structure.

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate,omitempty"`
	Description string `xml:"description,omitempty"`
}

// renderRSS produces the RSS feed over the FeedLimit most recent posts.
// Posts must already be in listing order.
func (a *Assembler) renderRSS(posts []*Post) ([]byte, error) {
	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:         a.cfg.Title,
			Link:          a.cfg.BaseURL,
			Description:   "Recent content on " + a.cfg.Title,
			Language:      a.cfg.LanguageCode,
			LastBuildDate: a.buildTime.Format(time.RFC1123Z),
		},
	}

	for _, p := range limitPosts(posts, a.cfg.FeedLimit) {
		view := a.postView(p)
		item := rssItem{
			Title:       view.Title,
			Link:        view.Permalink,
			GUID:        view.Permalink,
			Description: feedSummary(p),
		}
		if view.HasDate {
			item.PubDate = view.Date.Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	body, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// JSON Feed 1.1 document structure.

type jsonFeed struct {
	Version     string         `json:"version"`
	Title       string         `json:"title"`
	HomePageURL string         `json:"home_page_url"`
	FeedURL     string         `json:"feed_url"`
	Language    string         `json:"language,omitempty"`
	Items       []jsonFeedItem `json:"items"`
}

type jsonFeedItem struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	ContentHTML   string `json:"content_html"`
	Summary       string `json:"summary,omitempty"`
	DatePublished string `json:"date_published,omitempty"`
}

// renderJSONFeed produces the JSON Feed over the FeedLimit most recent posts.
func (a *Assembler) renderJSONFeed(posts []*Post) ([]byte, error) {
	feed := jsonFeed{
		Version:     "https://jsonfeed.org/version/1.1",
		Title:       a.cfg.Title,
		HomePageURL: a.cfg.BaseURL,
		FeedURL:     a.cfg.BaseURL + "feed.json",
		Language:    a.cfg.LanguageCode,
		Items:       []jsonFeedItem{},
	}

	for _, p := range limitPosts(posts, a.cfg.FeedLimit) {
		view := a.postView(p)
		item := jsonFeedItem{
			ID:          view.Permalink,
			URL:         view.Permalink,
			Title:       view.Title,
			ContentHTML: string(p.HTML),
			Summary:     feedSummary(p),
		}
		if view.HasDate {
			item.DatePublished = view.Date.Format(time.RFC3339)
		}
		feed.Items = append(feed.Items, item)
	}

	body, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

func limitPosts(posts []*Post, limit int) []*Post {
	if limit > 0 && len(posts) > limit {
		return posts[:limit]
	}
	return posts
}

const summaryRunes = 280

// feedSummary prefers the authored description, falling back to a truncated
// plain-text summary of the rendered body.
func feedSummary(p *Post) string {
	if d := p.Item.Meta.Description; d != "" {
		return d
	}
	plain := stripTags(string(p.HTML))
	if utf8.RuneCountInString(plain) <= summaryRunes {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:summaryRunes])) + "…"
}

// stripTags removes markup for summaries. Tag boundaries only; entity
// decoding is left alone since feed consumers handle entities.
func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
