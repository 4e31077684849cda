// Package linkcheck verifies that internal links in a rendered site resolve
// to files that were actually written.
package linkcheck

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitesmith/internal/content"
	"git.home.luguber.info/inful/sitesmith/internal/markdown"
)

// Broken is one unresolvable internal reference.
type Broken struct {
	Page        string // HTML file containing the link, relative to the output root
	Destination string // the href/src as written
}

// Check walks every HTML file under outputDir and verifies that each
// root-relative href and src resolves to a written file. basePath is the
// path component of the site base URL ("/" for root deployments); links
// under it are resolved against the output root. External and fragment-only
// links are ignored.
func Check(outputDir, basePath string) ([]Broken, error) {
	var broken []Broken

	err := filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(outputDir, p)
		if err != nil {
			return err
		}
		refs, err := extractRefs(p)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			target, internal := resolve(ref, basePath)
			if !internal {
				continue
			}
			if !exists(outputDir, target) {
				broken = append(broken, Broken{Page: filepath.ToSlash(rel), Destination: ref})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortBroken(broken)
	return broken, nil
}

// CheckSources extracts links straight from the markdown sources and
// verifies the internal ones resolve in the rendered output. This catches
// references the renderer rewrote or dropped, which the HTML walk in Check
// can no longer see.
func CheckSources(ctx context.Context, contentRoot, outputDir, basePath string) ([]Broken, error) {
	store := content.NewStore(contentRoot)
	paths, err := store.Walk(ctx)
	if err != nil {
		return nil, err
	}

	var broken []Broken
	for _, rel := range paths {
		item, err := store.ParseFile(rel)
		if err != nil {
			// Parse failures are the build's to report.
			continue
		}
		for _, link := range markdown.ExtractLinks(item.Body) {
			target, internal := resolve(link.Destination, basePath)
			if !internal {
				continue
			}
			if !exists(outputDir, target) {
				broken = append(broken, Broken{Page: rel, Destination: link.Destination})
			}
		}
	}

	sortBroken(broken)
	return broken, nil
}

func sortBroken(broken []Broken) {
	sort.Slice(broken, func(i, j int) bool {
		if broken[i].Page != broken[j].Page {
			return broken[i].Page < broken[j].Page
		}
		return broken[i].Destination < broken[j].Destination
	})
}

// extractRefs parses one HTML file and collects href/src attribute values.
func extractRefs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, err
	}

	var refs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "href" || attr.Key == "src" {
					refs = append(refs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

// resolve maps a reference to an output-root-relative path. internal is
// false for external URLs, fragments, and mailto-style schemes.
func resolve(ref, basePath string) (target string, internal bool) {
	if ref == "" || strings.HasPrefix(ref, "#") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	p := u.Path
	if p == "" {
		return "", false
	}
	if !strings.HasPrefix(p, "/") {
		// Relative links resolve against the containing page; the assembler
		// only emits root-relative internal links, so ignore these.
		return "", false
	}
	if basePath != "/" && strings.HasPrefix(p, basePath) {
		p = "/" + strings.TrimPrefix(p, basePath)
	}
	return path.Clean(p), true
}

func exists(outputDir, target string) bool {
	p := filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(target, "/")))
	fi, err := os.Stat(p)
	if err != nil {
		return false
	}
	if fi.IsDir() {
		_, err := os.Stat(filepath.Join(p, "index.html"))
		return err == nil
	}
	return true
}
