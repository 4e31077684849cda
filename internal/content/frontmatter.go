package content

import (
	"bytes"
	"errors"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FrontmatterFormat identifies the metadata encoding of a content file.
type FrontmatterFormat string

const (
	FormatYAML FrontmatterFormat = "yaml" // `---` delimited
	FormatTOML FrontmatterFormat = "toml" // `+++` delimited
	FormatNone FrontmatterFormat = ""
)

// ErrMissingClosingDelimiter indicates the document started with a
// frontmatter delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// SplitFrontmatter separates the frontmatter block from the body.
//
// YAML frontmatter is `---` delimited, TOML is `+++` delimited. If the
// document starts with neither, format is FormatNone and body is the full
// input.
func SplitFrontmatter(content []byte) (frontmatter []byte, body []byte, format FrontmatterFormat, err error) {
	nl := detectNewline(content)

	for _, candidate := range []struct {
		delim  string
		format FrontmatterFormat
	}{
		{"---", FormatYAML},
		{"+++", FormatTOML},
	} {
		open := []byte(candidate.delim + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}

		start := len(open)
		// Empty frontmatter: the closing delimiter follows immediately.
		if bytes.HasPrefix(content[start:], open) {
			return []byte{}, content[start+len(open):], candidate.format, nil
		}

		closeSeq := []byte(nl + candidate.delim + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			// Closing delimiter at EOF without trailing newline.
			tail := []byte(nl + candidate.delim)
			if bytes.HasSuffix(content[start:], tail) {
				return content[start : len(content)-len(candidate.delim)], nil, candidate.format, nil
			}
			return nil, nil, FormatNone, ErrMissingClosingDelimiter
		}

		end := start + idx + len(nl)
		bodyStart := start + idx + len(closeSeq)
		return content[start:end], content[bodyStart:], candidate.format, nil
	}

	return nil, content, FormatNone, nil
}

// decodeFrontmatter parses raw frontmatter (without delimiters) into a map.
func decodeFrontmatter(frontmatter []byte, format FrontmatterFormat) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	fields := map[string]any{}
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(frontmatter, &fields); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
			return nil, err
		}
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
