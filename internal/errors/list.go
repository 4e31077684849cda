package errors

import (
	"fmt"
	"strings"
	"sync"
)

// List accumulates recoverable per-file errors during a build. It is safe
// for concurrent use; the parse and write worker pools append from multiple
// goroutines.
type List struct {
	mu   sync.Mutex
	errs []*BuildError
}

// Add appends an error. Nil errors are ignored. Plain errors are wrapped as
// internal so callers can pass through arbitrary failures.
func (l *List) Add(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if be, ok := err.(*BuildError); ok {
		l.errs = append(l.errs, be)
		return
	}
	l.errs = append(l.errs, Wrap(err, CategoryInternal, SeverityError, "unclassified error"))
}

// Len returns the number of accumulated errors.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errs)
}

// Errors returns a copy of the accumulated errors.
func (l *List) Errors() []*BuildError {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*BuildError, len(l.errs))
	copy(out, l.errs)
	return out
}

// Summary renders the end-of-build failure listing: one line per error with
// its category and source file when known.
func (l *List) Summary() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.errs) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d file(s) failed:\n", len(l.errs))
	for _, e := range l.errs {
		if src := e.Source(); src != "" {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", e.Category, src, e.Message)
		} else {
			fmt.Fprintf(&b, "  [%s] %s\n", e.Category, e.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// AsError returns the list as a single error value, or nil when empty.
func (l *List) AsError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.errs) == 0 {
		return nil
	}
	return New(CategoryRuntime, SeverityError, fmt.Sprintf("build completed with %d error(s)", len(l.errs)))
}
