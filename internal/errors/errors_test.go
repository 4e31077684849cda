package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrorFormatting(t *testing.T) {
	err := New(CategoryConfig, SeverityFatal, "missing title")
	assert.Equal(t, "config (fatal): missing title", err.Error())

	wrapped := Wrap(fmt.Errorf("yaml: line 3"), CategoryParse, SeverityError, "content parse failed")
	assert.Equal(t, "parse (error): content parse failed: yaml: line 3", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "yaml: line 3")
}

func TestBuildErrorSource(t *testing.T) {
	err := ParseFailed("posts/a.md", fmt.Errorf("boom"))
	assert.Equal(t, "posts/a.md", err.Source())

	assert.Empty(t, New(CategoryInternal, SeverityError, "no context").Source())
	assert.Empty(t, New(CategoryInternal, SeverityError, "non-string").WithContext("path", 42).Source())
}

func TestExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{New(CategoryValidation, SeverityError, "bad flag"), 2},
		{New(CategoryConfig, SeverityFatal, "missing config"), 7},
		{New(CategoryParse, SeverityError, "bad frontmatter"), 11},
		{New(CategoryRender, SeverityError, "render failed"), 11},
		{New(CategoryFileSystem, SeverityError, "write failed"), 11},
		{New(CategoryTheme, SeverityFatal, "theme missing"), 11},
		{New(CategoryRuntime, SeverityError, "canceled"), 12},
		{New(CategoryInternal, SeverityError, "bug"), 10},
		{fmt.Errorf("plain error"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, adapter.ExitCodeFor(tt.err))
	}
}

func TestFormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	assert.Equal(t, "missing title", adapter.FormatError(New(CategoryConfig, SeverityFatal, "missing title")))
	assert.Equal(t, "parse: bad frontmatter", adapter.FormatError(New(CategoryParse, SeverityError, "bad frontmatter")))
	assert.Equal(t, "Error: plain", adapter.FormatError(fmt.Errorf("plain")))

	verbose := NewCLIErrorAdapter(true, nil)
	assert.Equal(t, "config (fatal): missing title", verbose.FormatError(New(CategoryConfig, SeverityFatal, "missing title")))
}

func TestListAccumulation(t *testing.T) {
	list := &List{}
	require.Zero(t, list.Len())
	require.NoError(t, list.AsError())
	require.Empty(t, list.Summary())

	list.Add(nil)
	require.Zero(t, list.Len())

	list.Add(ParseFailed("a.md", fmt.Errorf("boom")))
	list.Add(fmt.Errorf("plain failure"))
	require.Equal(t, 2, list.Len())

	errs := list.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, CategoryParse, errs[0].Category)
	assert.Equal(t, CategoryInternal, errs[1].Category)

	summary := list.Summary()
	assert.Contains(t, summary, "2 file(s) failed:")
	assert.Contains(t, summary, "[parse] a.md: content parse failed")
	assert.Contains(t, summary, "[internal] unclassified error")

	err := list.AsError()
	require.Error(t, err)
	assert.Equal(t, "build completed with 2 error(s)", err.(*BuildError).Message)
}

func TestListConcurrentAdd(t *testing.T) {
	list := &List{}
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				list.Add(RenderFailed("p.md", fmt.Errorf("x")))
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	require.Equal(t, 400, list.Len())
}
