package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormatTimestamp tests the manifest timestamp format
func TestFormatTimestamp(t *testing.T) {
	t.Run("UTC midnight keeps milliseconds", func(t *testing.T) {
		ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "2025-03-01T00:00:00.000Z", FormatTimestamp(ts))
	})

	t.Run("non-UTC times are converted", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		ts := time.Date(2025, 3, 1, 2, 0, 0, 0, loc)
		assert.Equal(t, "2025-03-01T00:00:00.000Z", FormatTimestamp(ts))
	})

	t.Run("sub-millisecond precision is truncated", func(t *testing.T) {
		ts := time.Date(2025, 3, 1, 12, 30, 45, 123456789, time.UTC)
		assert.Equal(t, "2025-03-01T12:30:45.123Z", FormatTimestamp(ts))
	})
}

// TestDocEntry_JSONShape tests the serialized form consumers depend on
func TestDocEntry_JSONShape(t *testing.T) {
	t.Run("empty lists serialize as arrays, never null", func(t *testing.T) {
		entry := DocEntry{
			Path:                "/guides/setup.md",
			Slug:                "guides/setup",
			Category:            "guides",
			Title:               "Setup",
			Description:         "",
			AudienceLevels:      []string{},
			Personas:            []string{},
			Categories:          []string{},
			Tags:                []string{},
			RelatedProjectTypes: []string{},
			SearchKeywords:      []string{},
			Related:             []string{},
		}

		data, err := json.Marshal(entry)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))

		for _, key := range []string{"audience_levels", "personas", "categories", "tags", "relatedProjectTypes", "search_keywords", "related"} {
			val, ok := decoded[key]
			require.True(t, ok, "expected key %q", key)
			assert.IsType(t, []any{}, val, "key %q must be an array", key)
		}
	})

	t.Run("optional fields omitted when absent", func(t *testing.T) {
		entry := DocEntry{Path: "/a.md", Slug: "a", Category: "uncategorized", Title: "A"}

		data, err := json.Marshal(entry)
		require.NoError(t, err)

		assert.NotContains(t, string(data), "min_read_minutes")
		assert.NotContains(t, string(data), "lastUpdated")
		// description is always present, even when empty
		assert.Contains(t, string(data), `"description":""`)
	})

	t.Run("optional fields present when set", func(t *testing.T) {
		minutes := 7
		entry := DocEntry{
			Path:           "/a.md",
			Slug:           "a",
			Category:       "uncategorized",
			Title:          "A",
			MinReadMinutes: &minutes,
			LastUpdated:    "2025-03-01T00:00:00.000Z",
		}

		data, err := json.Marshal(entry)
		require.NoError(t, err)

		assert.Contains(t, string(data), `"min_read_minutes":7`)
		assert.Contains(t, string(data), `"lastUpdated":"2025-03-01T00:00:00.000Z"`)
	})
}

// TestManifest_JSONShape tests the top-level manifest serialization
func TestManifest_JSONShape(t *testing.T) {
	m := Manifest{
		Schema:      "./manifest.schema.json",
		Version:     "1.0.0",
		GeneratedAt: "2025-03-01T00:00:00.000Z",
		Hash:        "a1b2c3d4e5f60718",
		Docs:        []DocEntry{},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "./manifest.schema.json", decoded["$schema"])
	assert.Equal(t, "1.0.0", decoded["version"])
	assert.Equal(t, "2025-03-01T00:00:00.000Z", decoded["generated_at"])
	assert.Equal(t, "a1b2c3d4e5f60718", decoded["hash"])
	assert.IsType(t, []any{}, decoded["docs"])
}

// TestBuildContext_GeneratedAt tests timestamp stamping from the run start
func TestBuildContext_GeneratedAt(t *testing.T) {
	bc := &BuildContext{
		ID:        "0b51a2aa",
		Root:      "/srv/docs",
		StartedAt: time.Date(2025, 3, 1, 10, 15, 30, 250_000_000, time.UTC),
	}

	assert.Equal(t, "2025-03-01T10:15:30.250Z", bc.GeneratedAt())
}

// TestDefaultBuildOptions tests option defaults
func TestDefaultBuildOptions(t *testing.T) {
	opts := DefaultBuildOptions()

	assert.Equal(t, 4, opts.Concurrency)
	assert.False(t, opts.DryRun)
	assert.False(t, opts.StableOrder)
}
