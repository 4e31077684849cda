// Package theme resolves the template set used by the site assembler. A
// minimal default theme is embedded in the binary; named themes are loaded
// from themes/<name>/ under the site root.
package theme

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed default
var defaultThemeFS embed.FS

// pageKinds are the template entry points a theme must provide. Each kind
// is parsed together with base.html into its own template set so every kind
// can define its own "main" block.
var pageKinds = []string{"index", "single", "list", "taxonomy"}

// Theme is a resolved, parsed template set plus the theme's static assets.
type Theme struct {
	Name string
	fsys fs.FS
	sets map[string]*template.Template
}

// Funcs returns the helper functions available inside templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"dateFormat": func(layout string, t time.Time) string { return t.Format(layout) },
		"lower":      strings.ToLower,
	}
}

// Load resolves the theme by name under root/themes, falling back to the
// embedded default theme when name is empty or the directory is missing.
func Load(root, name string) (*Theme, error) {
	if name != "" {
		dir := filepath.Join(root, "themes", name)
		if st, err := os.Stat(filepath.Join(dir, "layouts")); err == nil && st.IsDir() {
			return parse(name, os.DirFS(dir))
		}
		slog.Warn("Theme not installed, falling back to embedded default", "theme", name)
	}

	sub, err := fs.Sub(defaultThemeFS, "default")
	if err != nil {
		return nil, fmt.Errorf("embedded theme: %w", err)
	}
	return parse("default", sub)
}

func parse(name string, fsys fs.FS) (*Theme, error) {
	th := &Theme{Name: name, fsys: fsys, sets: make(map[string]*template.Template)}
	for _, kind := range pageKinds {
		t, err := template.New("base.html").Funcs(Funcs()).ParseFS(fsys,
			"layouts/base.html", "layouts/"+kind+".html")
		if err != nil {
			return nil, fmt.Errorf("theme %s: parse %s template: %w", name, kind, err)
		}
		th.sets[kind] = t
	}
	return th, nil
}

// Execute renders the template set for the given page kind.
func (t *Theme) Execute(kind string, data any) ([]byte, error) {
	set, ok := t.sets[kind]
	if !ok {
		return nil, fmt.Errorf("theme %s: no template for page kind %q", t.Name, kind)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("theme %s: execute %s: %w", t.Name, kind, err)
	}
	return buf.Bytes(), nil
}

// StaticFS returns the theme's static asset tree, or nil when the theme has
// none. Assets are copied verbatim into the output root.
func (t *Theme) StaticFS() fs.FS {
	sub, err := fs.Sub(t.fsys, "static")
	if err != nil {
		return nil
	}
	if _, err := fs.Stat(sub, "."); err != nil {
		return nil
	}
	return sub
}
