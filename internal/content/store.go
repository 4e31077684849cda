package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitesmith/internal/errors"
)

// Store walks a content root and parses its markdown files. Parsing of each
// file is independent: one malformed file is recorded and skipped, the rest
// of the walk continues.
type Store struct {
	Root string
}

// NewStore returns a store rooted at the given content directory.
func NewStore(root string) *Store {
	return &Store{Root: filepath.Clean(root)}
}

// Walk returns the relative paths of all markdown files under the root,
// skipping hidden files and editor artifacts, in lexical order.
func (s *Store) Walk(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := d.Name()
		if d.IsDir() {
			if path != s.Root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldIgnoreFile(name) {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(name), ".md") {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "walk content root").
			WithContext("root", s.Root)
	}
	slog.Debug("Discovered content files", "root", s.Root, "count", len(paths))
	return paths, nil
}

// ParseFile parses one content file (path relative to the root) into an Item.
func (s *Store) ParseFile(relPath string) (*Item, error) {
	raw, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, errors.ParseFailed(relPath, err)
	}

	fm, body, format, err := SplitFrontmatter(raw)
	if err != nil {
		return nil, errors.ParseFailed(relPath, err)
	}

	fields, err := decodeFrontmatter(fm, format)
	if err != nil {
		return nil, errors.ParseFailed(relPath, err)
	}

	meta, err := decodeMeta(fields)
	if err != nil {
		return nil, errors.ParseFailed(relPath, err)
	}

	item := &Item{
		SourcePath: relPath,
		Meta:       meta,
		Body:       body,
		Slug:       deriveSlug(relPath, meta),
	}
	if item.Slug == "" {
		return nil, errors.ParseFailed(relPath, errEmptySlug)
	}
	return item, nil
}

var errEmptySlug = errors.New(errors.CategoryParse, errors.SeverityError, "derived slug is empty")

// deriveSlug prefers an explicit frontmatter slug, else slugifies the file
// name (index files use their directory name).
func deriveSlug(relPath string, meta PageMeta) string {
	if meta.Slug != "" {
		return Slugify(meta.Slug)
	}
	base := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	if base == "index" || base == "_index" {
		if dir := filepath.Base(filepath.Dir(relPath)); dir != "." {
			base = dir
		}
	}
	return Slugify(base)
}

// shouldIgnoreFile filters editor junk and hidden files out of discovery.
func shouldIgnoreFile(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "#") {
		return true
	}
	if strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".swp") {
		return true
	}
	return name == ".DS_Store"
}
