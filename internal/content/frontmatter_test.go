package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatterYAML(t *testing.T) {
	input := []byte("---\ntitle: Hello\n---\nBody text\n")
	fm, body, format, err := SplitFrontmatter(input)
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, "title: Hello\n", string(fm))
	require.Equal(t, "Body text\n", string(body))
}

func TestSplitFrontmatterTOML(t *testing.T) {
	input := []byte("+++\ntitle = \"Hello\"\n+++\nBody\n")
	fm, body, format, err := SplitFrontmatter(input)
	require.NoError(t, err)
	require.Equal(t, FormatTOML, format)
	require.Equal(t, "title = \"Hello\"\n", string(fm))
	require.Equal(t, "Body\n", string(body))
}

func TestSplitFrontmatterNone(t *testing.T) {
	input := []byte("Just a body\n")
	fm, body, format, err := SplitFrontmatter(input)
	require.NoError(t, err)
	require.Equal(t, FormatNone, format)
	require.Nil(t, fm)
	require.Equal(t, input, body)
}

func TestSplitFrontmatterEmptyBlock(t *testing.T) {
	input := []byte("---\n---\nBody\n")
	fm, body, format, err := SplitFrontmatter(input)
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Empty(t, fm)
	require.Equal(t, "Body\n", string(body))
}

func TestSplitFrontmatterMissingClose(t *testing.T) {
	input := []byte("---\ntitle: Hello\nno closing delimiter\n")
	_, _, _, err := SplitFrontmatter(input)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestSplitFrontmatterCRLF(t *testing.T) {
	input := []byte("---\r\ntitle: Hello\r\n---\r\nBody\r\n")
	fm, body, format, err := SplitFrontmatter(input)
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, "title: Hello\r\n", string(fm))
	require.Equal(t, "Body\r\n", string(body))
}

func TestDecodeFrontmatterEmpty(t *testing.T) {
	fields, err := decodeFrontmatter(nil, FormatYAML)
	require.NoError(t, err)
	require.NotNil(t, fields)
	require.Empty(t, fields)
}
