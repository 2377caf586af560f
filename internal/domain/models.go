package domain

import "time"

// TimestampLayout is the wire format for manifest timestamps: UTC with
// millisecond precision and a literal Z suffix, e.g. 2025-03-01T00:00:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the manifest timestamp format
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// SourceFile represents a candidate documentation file discovered under the
// content root
type SourceFile struct {
	Path    string // absolute path on disk
	RelPath string // slash-separated path relative to the content root
}

// RawFrontmatter is the loosely typed metadata decoded from a document
// header. Every field is optional: values decode into any so that missing,
// null and unexpectedly typed entries all survive decoding and are resolved
// during normalization instead of failing the parse.
type RawFrontmatter struct {
	Title           any `yaml:"title"`
	Description     any `yaml:"description"`
	PrimaryCategory any `yaml:"primary_category"`
	Categories      any `yaml:"categories"`
	AudienceLevels  any `yaml:"audience_levels"`
	Personas        any `yaml:"personas"`
	Tags            any `yaml:"tags"`
	SearchKeywords  any `yaml:"search_keywords"`
	Related         any `yaml:"related"`
	MinReadMinutes  any `yaml:"min_read_minutes"`
	LastReviewed    any `yaml:"last_reviewed"`

	// Both spellings appear in real corpora; the snake_case key wins when
	// a document carries both.
	RelatedProjectTypes    any `yaml:"related_project_types"`
	RelatedProjectTypesAlt any `yaml:"relatedProjectTypes"`
}

// DocEntry is a fully normalized manifest entry. Field order mirrors the
// JSON key order consumers see. List fields are always non-nil so they
// serialize as arrays, never null.
type DocEntry struct {
	Path                string   `json:"path"`
	Slug                string   `json:"slug"`
	Category            string   `json:"category"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	AudienceLevels      []string `json:"audience_levels"`
	Personas            []string `json:"personas"`
	Categories          []string `json:"categories"`
	Tags                []string `json:"tags"`
	RelatedProjectTypes []string `json:"relatedProjectTypes"`
	SearchKeywords      []string `json:"search_keywords"`
	Related             []string `json:"related"`
	MinReadMinutes      *int     `json:"min_read_minutes,omitempty"`
	LastUpdated         string   `json:"lastUpdated,omitempty"`
}

// Manifest is the versioned build artifact consumed by the docs runtime
type Manifest struct {
	Schema      string     `json:"$schema"`
	Version     string     `json:"version"`
	GeneratedAt string     `json:"generated_at"`
	Hash        string     `json:"hash"`
	Docs        []DocEntry `json:"docs"`
}

// BuildContext carries per-run build state through the pipeline. It is
// constructed once at the start of a run and never shared across runs.
type BuildContext struct {
	ID          string    // short build identifier, used for log correlation
	Root        string    // absolute content root
	OutputPath  string    // manifest destination
	StartedAt   time.Time // captured once, stamped into generated_at
	Version     string    // manifest version tag
	SchemaRef   string    // value of the manifest $schema field
	StableOrder bool      // sort docs by slug before hashing and writing
}

// GeneratedAt returns the run start time in manifest timestamp format
func (b *BuildContext) GeneratedAt() string {
	return FormatTimestamp(b.StartedAt)
}
