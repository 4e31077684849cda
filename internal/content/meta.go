package content

import (
	"fmt"
	"strings"
	"time"
)

// Layout selects which template renders an item.
type Layout string

const (
	LayoutPost    Layout = "post"
	LayoutPage    Layout = "page"
	LayoutDefault Layout = "default"
)

// PageMeta is the typed frontmatter record. Recognized keys decode into
// fields; everything else is preserved in Extra so themes can reach it, but
// malformed values in recognized keys fail at parse time instead of
// surfacing inside templates.
type PageMeta struct {
	Title       string
	Date        time.Time
	HasDate     bool
	Tags        []string
	Categories  []string
	Layout      Layout
	Draft       bool
	Description string
	Slug        string // explicit slug override
	Extra       map[string]any
}

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// decodeMeta converts a decoded frontmatter map into a PageMeta.
func decodeMeta(fields map[string]any) (PageMeta, error) {
	meta := PageMeta{
		Layout: LayoutDefault,
		Extra:  map[string]any{},
	}

	for key, value := range fields {
		switch strings.ToLower(key) {
		case "title":
			s, err := asString(key, value)
			if err != nil {
				return meta, err
			}
			meta.Title = s
		case "date":
			t, err := asTime(value)
			if err != nil {
				return meta, err
			}
			meta.Date = t
			meta.HasDate = true
		case "tags":
			list, err := asStringList(key, value)
			if err != nil {
				return meta, err
			}
			meta.Tags = dedupe(list)
		case "categories":
			list, err := asStringList(key, value)
			if err != nil {
				return meta, err
			}
			meta.Categories = dedupe(list)
		case "layout":
			s, err := asString(key, value)
			if err != nil {
				return meta, err
			}
			layout, err := parseLayout(s)
			if err != nil {
				return meta, err
			}
			meta.Layout = layout
		case "draft":
			b, ok := value.(bool)
			if !ok {
				return meta, fmt.Errorf("frontmatter key %q: expected bool, got %T", key, value)
			}
			meta.Draft = b
		case "description":
			s, err := asString(key, value)
			if err != nil {
				return meta, err
			}
			meta.Description = s
		case "slug":
			s, err := asString(key, value)
			if err != nil {
				return meta, err
			}
			meta.Slug = s
		default:
			meta.Extra[key] = value
		}
	}

	return meta, nil
}

func parseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutPost:
		return LayoutPost, nil
	case LayoutPage:
		return LayoutPage, nil
	case LayoutDefault, "":
		return LayoutDefault, nil
	default:
		return "", fmt.Errorf("unknown layout %q", s)
	}
}

func asString(key string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("frontmatter key %q: expected string, got %T", key, value)
	}
	return s, nil
}

func asTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", v)
	default:
		return time.Time{}, fmt.Errorf("frontmatter key \"date\": expected timestamp, got %T", value)
	}
}

func asStringList(key string, value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		// A bare scalar is accepted as a single-element list.
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("frontmatter key %q: expected list of strings, got %T element", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	case []string:
		return v, nil
	default:
		return nil, fmt.Errorf("frontmatter key %q: expected list of strings, got %T", key, value)
	}
}

// dedupe removes duplicates preserving first-seen order. Tags and categories
// behave as sets.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
