package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/sitesmith/internal/errors"
)

// Install clones a theme repository into root/themes/<name>. The name is
// derived from the final URL path segment with any .git suffix removed.
func Install(ctx context.Context, root, url string) (string, error) {
	name := NameFromURL(url)
	if name == "" {
		return "", errors.ThemeInstallFailed(url, nil)
	}

	dest := filepath.Join(root, "themes", name)
	if _, err := os.Stat(dest); err == nil {
		return "", errors.New(errors.CategoryTheme, errors.SeverityFatal, "theme directory already exists").
			WithContext("path", dest)
	}

	slog.Info("Installing theme", "url", url, "dest", dest)
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if err != nil {
		// Leave no partial clone behind.
		_ = os.RemoveAll(dest)
		return "", errors.ThemeInstallFailed(url, err)
	}
	return name, nil
}

// NameFromURL derives a theme name from a clone URL.
func NameFromURL(url string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	idx := strings.LastIndexAny(trimmed, "/:")
	if idx < 0 || idx == len(trimmed)-1 {
		return ""
	}
	return trimmed[idx+1:]
}
