package linkcheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func TestCheckCleanSite(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "index.html", `<html><body>
<a href="/posts/a/">A</a>
<a href="/css/style.css">styles</a>
<a href="https://example.org/">external</a>
<a href="#top">fragment</a>
<a href="mailto:hi@example.org">mail</a>
</body></html>`)
	writeFile(t, out, "posts/a/index.html", `<html><body><img src="/css/style.css"></body></html>`)
	writeFile(t, out, "css/style.css", "body{}")

	broken, err := Check(out, "/")
	require.NoError(t, err)
	require.Empty(t, broken)
}

func TestCheckReportsBrokenLinks(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "index.html", `<html><body>
<a href="/posts/missing/">gone</a>
<img src="/img/banner.png">
</body></html>`)
	writeFile(t, out, "posts/a/index.html", `<a href="/posts/missing/">gone too</a>`)

	broken, err := Check(out, "/")
	require.NoError(t, err)
	require.Len(t, broken, 3)

	// Sorted by page, then destination.
	require.Equal(t, Broken{Page: "index.html", Destination: "/img/banner.png"}, broken[0])
	require.Equal(t, Broken{Page: "index.html", Destination: "/posts/missing/"}, broken[1])
	require.Equal(t, Broken{Page: "posts/a/index.html", Destination: "/posts/missing/"}, broken[2])
}

func TestCheckDirectoryLinkNeedsIndex(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "index.html", `<a href="/posts/a/">A</a>`)
	// Directory exists but holds no index.html.
	require.NoError(t, os.MkdirAll(filepath.Join(out, "posts", "a"), 0o755))

	broken, err := Check(out, "/")
	require.NoError(t, err)
	require.Len(t, broken, 1)
	require.Equal(t, "/posts/a/", broken[0].Destination)
}

func TestCheckWithBasePath(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "index.html", `<html><body>
<a href="/blog/posts/a/">A</a>
<a href="/blog/posts/missing/">gone</a>
</body></html>`)
	writeFile(t, out, "posts/a/index.html", "ok")

	broken, err := Check(out, "/blog/")
	require.NoError(t, err)
	require.Len(t, broken, 1)
	require.Equal(t, "/blog/posts/missing/", broken[0].Destination)
}

func TestCheckSources(t *testing.T) {
	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	writeFile(t, contentDir, "a.md", `---
title: A
---
[ok](/posts/b/), [gone](/posts/missing/), [ext](https://example.org/),
and ![img](/img/banner.png).
`)
	out := filepath.Join(root, "public")
	writeFile(t, out, "posts/b/index.html", "ok")

	broken, err := CheckSources(context.Background(), contentDir, out, "/")
	require.NoError(t, err)
	require.Len(t, broken, 2)
	require.Equal(t, Broken{Page: "a.md", Destination: "/img/banner.png"}, broken[0])
	require.Equal(t, Broken{Page: "a.md", Destination: "/posts/missing/"}, broken[1])
}

func TestCheckIgnoresRelativeLinks(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "index.html", `<a href="posts/a/">relative</a>`)

	broken, err := Check(out, "/")
	require.NoError(t, err)
	require.Empty(t, broken)
}
