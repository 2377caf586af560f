package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith-io/docsmith/internal/domain"
)

func TestRootCommandWiring(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "build")
	assert.Contains(t, names, "lint")
	assert.Contains(t, names, "verify")
	assert.Contains(t, names, "notify")
	assert.Contains(t, names, "version")
}

func TestBuildAliasFlags(t *testing.T) {
	// The explicit build subcommand carries the same build flags as the
	// bare root invocation.
	for _, name := range []string{"dry-run", "stable-order", "compress", "emit-schema", "progress"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "root flag %s", name)
		assert.NotNil(t, buildCmd.Flags().Lookup(name), "build flag %s", name)
	}
}

func TestBuildOptions(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Bool("dry-run", false, "")
	cmd.Flags().Bool("stable-order", false, "")
	cmd.Flags().Bool("compress", false, "")
	cmd.Flags().Bool("emit-schema", false, "")
	cmd.Flags().Bool("progress", false, "")

	require.NoError(t, cmd.Flags().Set("dry-run", "true"))
	require.NoError(t, cmd.Flags().Set("stable-order", "true"))

	opts := buildOptions(cmd)

	assert.True(t, opts.DryRun)
	assert.True(t, opts.StableOrder)
	assert.False(t, opts.Compress)
	assert.False(t, opts.EmitSchema)
	assert.False(t, opts.Progress)
}

func TestCategoryRows(t *testing.T) {
	docs := []domain.DocEntry{
		{Slug: "guides/setup", Category: "guides"},
		{Slug: "guides/deploy", Category: "guides"},
		{Slug: "api/auth", Category: "api"},
	}

	rows := categoryRows(docs)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"api", "1"}, rows[0])
	assert.Equal(t, []string{"guides", "2"}, rows[1])
}

func TestCategoryRows_Empty(t *testing.T) {
	assert.Empty(t, categoryRows(nil))
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"PATH", "PROBLEM"},
		[][]string{
			{"notes/untitled.md", "missing or empty title"},
			{"broken.md"},
		},
		nil,
	)

	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "PROBLEM")
	assert.Contains(t, out, "notes/untitled.md")
	assert.Contains(t, out, "missing or empty title")
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Equal(t, "", renderTable(nil, nil, nil))
}
