package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith-io/docsmith/internal/config"
	"github.com/docsmith-io/docsmith/internal/domain"
	"github.com/docsmith-io/docsmith/internal/manifest"
)

func testConfig(root, output string) *config.Config {
	cfg := config.Default()
	cfg.Source.Root = root
	cfg.Manifest.Output = output
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "json"
	return cfg
}

func newTestPipeline(t *testing.T, cfg *config.Config, build domain.BuildOptions) *Pipeline {
	t.Helper()
	p, err := NewPipeline(PipelineOptions{Config: cfg, Build: build})
	require.NoError(t, err)
	return p
}

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNewPipeline_RequiresConfig(t *testing.T) {
	p, err := NewPipeline(PipelineOptions{})

	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestPipeline_Run(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "guides/setup.md", "---\ntitle: Setup\ntags:\n  - install\n---\n\n# Setup\n")
	writeDoc(t, root, "reference/api.md", "---\ntitle: API\nprimary_category: Reference Docs\n---\n\n# API\n")
	writeDoc(t, root, "notes/untitled.md", "---\ndescription: no title here\n---\n\nBody.\n")

	cfg := testConfig(root, output)
	p := newTestPipeline(t, cfg, domain.BuildOptions{})

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Candidates)
	assert.Equal(t, 2, result.Valid())
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "notes/untitled.md", result.Skipped[0].Path)
	assert.Contains(t, result.Skipped[0].Reason, "title")

	loader := manifest.NewLoader()
	m, err := loader.Load(output)
	require.NoError(t, err)
	assert.Equal(t, cfg.Manifest.Version, m.Version)
	assert.Equal(t, cfg.Manifest.SchemaRef, m.Schema)
	assert.Regexp(t, "^[0-9a-f]{16}$", m.Hash)
	assert.NotEmpty(t, m.GeneratedAt)
	require.Len(t, m.Docs, 2)

	// Discovery order is the lexical walk order
	assert.Equal(t, "/guides/setup.md", m.Docs[0].Path)
	assert.Equal(t, "guides/setup", m.Docs[0].Slug)
	assert.Equal(t, "guides", m.Docs[0].Category)
	assert.Equal(t, []string{"install"}, m.Docs[0].Tags)

	assert.Equal(t, "/reference/api.md", m.Docs[1].Path)
	assert.Equal(t, "reference-docs", m.Docs[1].Category)
}

func TestPipeline_Run_HashStability(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "intro.md", "---\ntitle: Intro\n---\n\nHello.\n")

	first := filepath.Join(t.TempDir(), "manifest.json")
	second := filepath.Join(t.TempDir(), "manifest.json")

	r1, err := newTestPipeline(t, testConfig(root, first), domain.BuildOptions{}).Run(context.Background())
	require.NoError(t, err)

	r2, err := newTestPipeline(t, testConfig(root, second), domain.BuildOptions{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, r1.Manifest.Hash, r2.Manifest.Hash, "unchanged corpus must keep its hash")

	// Content changes move the hash
	writeDoc(t, root, "intro.md", "---\ntitle: Introduction\n---\n\nHello.\n")
	r3, err := newTestPipeline(t, testConfig(root, first), domain.BuildOptions{}).Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, r1.Manifest.Hash, r3.Manifest.Hash)
}

func TestPipeline_Run_EmptyCorpus(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	p := newTestPipeline(t, testConfig(root, output), domain.BuildOptions{})

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Candidates)
	assert.Equal(t, 0, result.Valid())

	m, err := manifest.NewLoader().Load(output)
	require.NoError(t, err)
	assert.NotNil(t, m.Docs)
	assert.Empty(t, m.Docs)
	assert.Equal(t, "4f53cda18c2baa0c", m.Hash)
}

func TestPipeline_Run_AllInvalid(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "one.md", "---\ndescription: untitled\n---\n\nBody.\n")
	writeDoc(t, root, "two.md", "no frontmatter at all\n")

	p := newTestPipeline(t, testConfig(root, output), domain.BuildOptions{})

	result, err := p.Run(context.Background())

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoValidDocuments)
	assert.NoFileExists(t, output)
}

func TestPipeline_Run_MissingRoot(t *testing.T) {
	output := filepath.Join(t.TempDir(), "manifest.json")
	cfg := testConfig(filepath.Join(t.TempDir(), "nope"), output)

	p := newTestPipeline(t, cfg, domain.BuildOptions{})

	result, err := p.Run(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrRootNotFound)
}

func TestPipeline_Run_MalformedFrontmatterIsSkipped(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "good.md", "---\ntitle: Good\n---\n\nBody.\n")
	writeDoc(t, root, "broken.md", "---\ntitle: [unclosed\n---\n\nBody.\n")

	p := newTestPipeline(t, testConfig(root, output), domain.BuildOptions{})

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Candidates)
	assert.Equal(t, 1, result.Valid())
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "broken.md", result.Skipped[0].Path)
	assert.Contains(t, result.Skipped[0].Reason, "frontmatter")
	assert.NotContains(t, result.Skipped[0].Reason, "\n")
}

func TestPipeline_Run_DryRun(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "intro.md", "---\ntitle: Intro\n---\n\nBody.\n")

	p := newTestPipeline(t, testConfig(root, output), domain.BuildOptions{DryRun: true})

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Valid())
	assert.NotEmpty(t, result.Manifest.Hash)
	assert.NoFileExists(t, output)
}

func TestPipeline_Run_StableOrder(t *testing.T) {
	root := t.TempDir()

	// The walk visits a/b.md before a.md; slug order is the reverse.
	writeDoc(t, root, "a.md", "---\ntitle: Root Doc\n---\n")
	writeDoc(t, root, "a/b.md", "---\ntitle: Nested Doc\n---\n")

	unstableOut := filepath.Join(t.TempDir(), "manifest.json")
	unstable, err := newTestPipeline(t, testConfig(root, unstableOut), domain.BuildOptions{}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, unstable.Manifest.Docs, 2)
	assert.Equal(t, "/a/b.md", unstable.Manifest.Docs[0].Path)

	stableOut := filepath.Join(t.TempDir(), "manifest.json")
	stable, err := newTestPipeline(t, testConfig(root, stableOut), domain.BuildOptions{StableOrder: true}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, stable.Manifest.Docs, 2)
	assert.Equal(t, "/a.md", stable.Manifest.Docs[0].Path)
	assert.Equal(t, "/a/b.md", stable.Manifest.Docs[1].Path)

	assert.NotEqual(t, unstable.Manifest.Hash, stable.Manifest.Hash, "digest covers document order")
}

func TestPipeline_Run_Excludes(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "guides/setup.md", "---\ntitle: Setup\n---\n")
	writeDoc(t, root, "drafts/wip.md", "---\ntitle: WIP\n---\n")

	cfg := testConfig(root, output)
	cfg.Source.Exclude = []string{"drafts/**"}

	result, err := newTestPipeline(t, cfg, domain.BuildOptions{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Candidates)
	require.Len(t, result.Manifest.Docs, 1)
	assert.Equal(t, "/guides/setup.md", result.Manifest.Docs[0].Path)
}

func TestPipeline_Run_CompressAndEmitSchema(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "intro.md", "---\ntitle: Intro\n---\n")

	opts := domain.BuildOptions{Compress: true, EmitSchema: true}
	_, err := newTestPipeline(t, testConfig(root, output), opts).Run(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, output)
	assert.FileExists(t, output+".gz")
	assert.FileExists(t, filepath.Join(filepath.Dir(output), manifest.SchemaFilename))
}

func TestPipeline_Run_BuildLocked(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "intro.md", "---\ntitle: Intro\n---\n")

	lock := flock.New(output + ".lock")
	locked, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer lock.Unlock()

	result, err := newTestPipeline(t, testConfig(root, output), domain.BuildOptions{}).Run(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrBuildLocked)
	assert.NoFileExists(t, output)
}

func TestPipeline_Run_FailedBuildKeepsPublishedManifest(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "intro.md", "---\ntitle: Intro\n---\n")

	first, err := newTestPipeline(t, testConfig(root, output), domain.BuildOptions{}).Run(context.Background())
	require.NoError(t, err)

	// Corpus degrades to all-invalid; the failed rebuild must not touch
	// the published artifact.
	writeDoc(t, root, "intro.md", "---\ndescription: title went missing\n---\n")

	_, err = newTestPipeline(t, testConfig(root, output), domain.BuildOptions{}).Run(context.Background())
	require.ErrorIs(t, err, domain.ErrNoValidDocuments)

	m, err := manifest.NewLoader().Load(output)
	require.NoError(t, err)
	assert.Equal(t, first.Manifest.Hash, m.Hash)
	require.Len(t, m.Docs, 1)
	assert.Equal(t, "Intro", m.Docs[0].Title)
}

func TestPipeline_Lint(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "good.md", "---\ntitle: Good\n---\n")
	writeDoc(t, root, "bad.md", "---\ndescription: untitled\n---\n")

	result, err := newTestPipeline(t, testConfig(root, output), domain.BuildOptions{}).Lint(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Candidates)
	assert.Equal(t, 1, result.Valid())
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "bad.md", result.Skipped[0].Path)
	assert.NoFileExists(t, output)
}

func TestPipeline_Lint_AllInvalidStillReports(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(t.TempDir(), "manifest.json")

	writeDoc(t, root, "bad.md", "---\ndescription: untitled\n---\n")

	result, err := newTestPipeline(t, testConfig(root, output), domain.BuildOptions{}).Lint(context.Background())

	require.NoError(t, err, "lint reports problems instead of failing on them")
	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 0, result.Valid())
	assert.Len(t, result.Skipped, 1)
}
