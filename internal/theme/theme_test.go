package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubData struct {
	Site  map[string]string
	Title string
}

func TestLoadEmbeddedDefault(t *testing.T) {
	th, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	require.Equal(t, "default", th.Name)
	require.NotNil(t, th.StaticFS())
}

func TestLoadMissingThemeFallsBack(t *testing.T) {
	th, err := Load(t.TempDir(), "does-not-exist")
	require.NoError(t, err)
	require.Equal(t, "default", th.Name)
}

func TestLoadDiskTheme(t *testing.T) {
	root := t.TempDir()
	layouts := filepath.Join(root, "themes", "mini", "layouts")
	require.NoError(t, os.MkdirAll(layouts, 0o755))

	base := `<html><body>{{ block "main" . }}{{ end }}</body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(layouts, "base.html"), []byte(base), 0o644))
	for _, kind := range []string{"index", "single", "list", "taxonomy"} {
		body := `{{ define "main" }}` + kind + `: {{ .Title }}{{ end }}`
		require.NoError(t, os.WriteFile(filepath.Join(layouts, kind+".html"), []byte(body), 0o644))
	}

	th, err := Load(root, "mini")
	require.NoError(t, err)
	require.Equal(t, "mini", th.Name)

	out, err := th.Execute("single", stubData{Title: "Hello"})
	require.NoError(t, err)
	require.Contains(t, string(out), "single: Hello")

	// No static directory on this theme.
	require.Nil(t, th.StaticFS())
}

func TestExecuteUnknownKind(t *testing.T) {
	th, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	_, err = th.Execute("nope", nil)
	require.Error(t, err)
}

func TestNameFromURL(t *testing.T) {
	cases := map[string]string{
		"https://github.com/user/paper.git": "paper",
		"https://github.com/user/paper":     "paper",
		"git@github.com:user/paper.git":     "paper",
		"https://example.org/themes/dark/":  "dark",
		"":                                  "",
	}
	for url, want := range cases {
		if got := NameFromURL(url); got != want {
			t.Fatalf("NameFromURL(%q) = %q, want %q", url, got, want)
		}
	}
}
