package config

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/sitesmith/internal/errors"
)

// Validate checks the invariants required before a build may start.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.ConfigRequired("title")
	}
	if strings.TrimSpace(s.BaseURL) == "" {
		return errors.ConfigRequired("baseURL")
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return errors.ConfigInvalid("baseURL", err.Error())
	}
	if !u.IsAbs() || u.Host == "" {
		return errors.ConfigInvalid("baseURL", "must be an absolute URL")
	}
	for _, entry := range s.Menu.Main {
		if strings.TrimSpace(entry.Name) == "" {
			return errors.ConfigInvalid("menu.main", "menu entry without a name")
		}
		if strings.TrimSpace(entry.URL) == "" {
			return errors.ConfigInvalid("menu.main", "menu entry without a url")
		}
	}
	if s.Serve.RebuildEvery != "" && s.Serve.RebuildInterval() == 0 {
		return errors.ConfigInvalid("serve.rebuild_every", "not a valid positive duration")
	}
	return nil
}

// OverrideBaseURL replaces the base URL, applying the same trailing-slash
// normalization Load performs, and re-validates the result. Permalinks and
// asset hrefs join paths directly onto the base URL, so a missing slash
// would fuse host and path.
func (s *Site) OverrideBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	s.BaseURL = raw
	return s.Validate()
}

// BaseURLPath returns the path component of the base URL with a trailing
// slash, used to resolve root-relative links during link checking.
func (s *Site) BaseURLPath() string {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return "/"
	}
	p := u.Path
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
