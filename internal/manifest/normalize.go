package manifest

import (
	"math"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/docsmith-io/docsmith/internal/domain"
)

// UncategorizedSlug is the category assigned when no usable category can be
// derived from frontmatter or the document path.
const UncategorizedSlug = "uncategorized"

// dateOnly is the only string form accepted for last_reviewed.
var dateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var nonSlugRuns = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims leading and trailing hyphens. The result
// may be empty when s contains no alphanumeric characters.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Normalize converts loosely typed frontmatter into a strict manifest entry
// for the document at relPath (slash-separated, relative to the content
// root). It is total: every input yields a well-formed entry, with unusable
// optional fields silently replaced by their defaults. The title requirement
// is enforced by validation afterwards, not here.
func Normalize(raw *domain.RawFrontmatter, relPath string) domain.DocEntry {
	if raw == nil {
		raw = &domain.RawFrontmatter{}
	}

	entry := domain.DocEntry{
		Path:                "/" + relPath,
		Slug:                strings.TrimSuffix(relPath, path.Ext(relPath)),
		Title:               stringValue(raw.Title),
		Description:         stringValue(raw.Description),
		AudienceLevels:      stringList(raw.AudienceLevels),
		Personas:            stringList(raw.Personas),
		Categories:          stringList(raw.Categories),
		Tags:                stringList(raw.Tags),
		RelatedProjectTypes: stringList(projectTypes(raw)),
		SearchKeywords:      stringList(raw.SearchKeywords),
		Related:             stringList(raw.Related),
	}

	entry.Category = deriveCategory(stringValue(raw.PrimaryCategory), entry.Categories, relPath)

	if minutes, ok := intValue(raw.MinReadMinutes); ok {
		entry.MinReadMinutes = &minutes
	}
	if ts, ok := coerceDate(raw.LastReviewed); ok {
		entry.LastUpdated = ts
	}

	return entry
}

// projectTypes prefers the snake_case spelling over the legacy camelCase one
// when a document carries both.
func projectTypes(raw *domain.RawFrontmatter) any {
	if raw.RelatedProjectTypes != nil {
		return raw.RelatedProjectTypes
	}
	return raw.RelatedProjectTypesAlt
}

// deriveCategory picks the first available source in priority order:
// explicit primary_category, first element of categories, then the top-level
// directory of the document path. The chosen value is slugified; an empty
// result falls back to UncategorizedSlug.
func deriveCategory(primary string, categories []string, relPath string) string {
	candidate := primary
	if candidate == "" && len(categories) > 0 {
		candidate = categories[0]
	}
	if candidate == "" {
		if idx := strings.Index(relPath, "/"); idx > 0 {
			candidate = relPath[:idx]
		}
	}
	if candidate == "" {
		return UncategorizedSlug
	}
	if slug := Slugify(candidate); slug != "" {
		return slug
	}
	return UncategorizedSlug
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// stringList copies a raw list field keeping only its string elements.
// Absent values and non-list values yield an empty, non-nil slice so list
// fields never serialize as null.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// intValue accepts the integer shapes the YAML decoder produces for
// numeric scalars. Negative values are rejected so entries always satisfy
// the published schema.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		if n >= 0 {
			return n, true
		}
	case int64:
		if n >= 0 && n <= math.MaxInt {
			return int(n), true
		}
	case float64:
		if n >= 0 && n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true
		}
	}
	return 0, false
}

// coerceDate accepts a native YAML timestamp or a string in strict
// YYYY-MM-DD form and renders it as a UTC midnight timestamp. Everything
// else is dropped.
func coerceDate(v any) (string, bool) {
	switch d := v.(type) {
	case time.Time:
		return domain.FormatTimestamp(midnightUTC(d)), true
	case string:
		if !dateOnly.MatchString(d) {
			return "", false
		}
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return "", false
		}
		return domain.FormatTimestamp(parsed), true
	}
	return "", false
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
