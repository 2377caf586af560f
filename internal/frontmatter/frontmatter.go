// Package frontmatter extracts YAML metadata blocks from markdown documents.
package frontmatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/docsmith-io/docsmith/internal/domain"
	"gopkg.in/yaml.v3"
)

// Extract splits a "---"-delimited YAML metadata block from document content
// and decodes it into the loose RawFrontmatter structure. Documents without
// a complete delimited block yield an empty RawFrontmatter and the full
// content as body. A block that is present but is not parseable YAML is an
// error wrapping domain.ErrMalformedFrontmatter.
func Extract(content []byte) (*domain.RawFrontmatter, string, error) {
	text := strings.TrimSpace(string(content))

	if !strings.HasPrefix(text, "---") {
		return &domain.RawFrontmatter{}, text, nil
	}

	rest := text[3:]
	if strings.HasPrefix(rest, "\r\n") {
		rest = rest[2:]
	} else if strings.HasPrefix(rest, "\n") {
		rest = rest[1:]
	}

	lines := strings.Split(rest, "\n")
	yamlLines := []string{}
	closingIdx := -1

	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if trimmed == "---" {
			closingIdx = i
			break
		}
		yamlLines = append(yamlLines, line)
	}

	if closingIdx == -1 {
		// No closing delimiter: the whole document is body.
		return &domain.RawFrontmatter{}, text, nil
	}

	var raw domain.RawFrontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(yamlLines, "\n")), &raw); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrMalformedFrontmatter, err)
	}

	body := strings.TrimSpace(strings.Join(lines[closingIdx+1:], "\n"))
	return &raw, body, nil
}

// ExtractFile reads a document from disk, normalizes its encoding and
// extracts its frontmatter.
func ExtractFile(path string) (*domain.RawFrontmatter, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	normalized, err := NormalizeUTF8(content)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrMalformedFrontmatter, err)
	}

	return Extract(normalized)
}
