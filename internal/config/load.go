package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitesmith/internal/errors"
)

// Load reads a site configuration file (TOML or YAML, selected by
// extension), applies defaults, and validates it. Any failure is fatal to
// the build; there is no partial-configuration mode.
func Load(configPath string) (*Site, error) {
	// Load .env file if it exists. Missing files are fine.
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "read configuration file").
			WithContext("path", configPath)
	}

	site := &Site{}
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		if err := toml.Unmarshal(data, site); err != nil {
			return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "parse TOML configuration").
				WithContext("path", configPath)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, site); err != nil {
			return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "parse YAML configuration").
				WithContext("path", configPath)
		}
	default:
		return nil, errors.ConfigInvalid("path", fmt.Sprintf("unsupported configuration format %q", filepath.Ext(configPath)))
	}

	applyDefaults(site)

	if err := site.Validate(); err != nil {
		return nil, err
	}

	return site, nil
}

func applyDefaults(s *Site) {
	// Templates and permalinks join paths directly onto BaseURL.
	if s.BaseURL != "" && !strings.HasSuffix(s.BaseURL, "/") {
		s.BaseURL += "/"
	}
	if s.LanguageCode == "" {
		s.LanguageCode = "en-us"
	}
	if s.FeedLimit <= 0 {
		s.FeedLimit = 15
	}
	if s.Serve.Addr == "" {
		s.Serve.Addr = ":1313"
	}
	if s.Serve.DebounceMillis <= 0 {
		s.Serve.DebounceMillis = 300
	}
}

// loadEnvFile loads environment variables from .env in the working
// directory when present.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}
