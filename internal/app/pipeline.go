package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/docsmith-io/docsmith/internal/config"
	"github.com/docsmith-io/docsmith/internal/corpus"
	"github.com/docsmith-io/docsmith/internal/domain"
	"github.com/docsmith-io/docsmith/internal/frontmatter"
	"github.com/docsmith-io/docsmith/internal/gitinfo"
	"github.com/docsmith-io/docsmith/internal/manifest"
	"github.com/docsmith-io/docsmith/internal/utils"
)

// SkippedDoc records a document rejected during a build
type SkippedDoc struct {
	Path   string
	Reason string
}

// Result summarizes a completed build
type Result struct {
	Manifest   *domain.Manifest
	Context    *domain.BuildContext
	Candidates int
	Skipped    []SkippedDoc
	Git        *gitinfo.Info
	Duration   time.Duration
}

// Valid returns the number of documents included in the manifest
func (r *Result) Valid() int {
	return len(r.Manifest.Docs)
}

// Pipeline coordinates the manifest build: locate, extract, normalize,
// validate, assemble, write.
type Pipeline struct {
	config      *config.Config
	logger      *utils.Logger
	scanner     *corpus.Scanner
	writer      *manifest.Writer
	opts        domain.BuildOptions
	concurrency int
}

// PipelineOptions contains options for creating a pipeline
type PipelineOptions struct {
	Config *config.Config
	Logger *utils.Logger
	Build  domain.BuildOptions
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(opts PipelineOptions) (*Pipeline, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := cfg.Logging.Level
		if logLevel == "" {
			logLevel = "info"
		}
		if opts.Build.Verbose {
			logLevel = "debug"
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  cfg.Logging.Format,
			Verbose: opts.Build.Verbose,
		})
	}

	scanner := corpus.NewScanner(corpus.ScannerOptions{
		Logger:      logger,
		Extensions:  cfg.Source.Extensions,
		Excludes:    cfg.Source.Exclude,
		MaxFileSize: cfg.MaxFileSizeBytes(),
	})

	writer := manifest.NewWriter(manifest.WriterOptions{
		DryRun:     opts.Build.DryRun,
		Compress:   opts.Build.Compress || cfg.Manifest.Compress,
		EmitSchema: opts.Build.EmitSchema || cfg.Manifest.EmitSchema,
	})

	concurrency := opts.Build.Concurrency
	if concurrency < 1 {
		concurrency = cfg.Build.Concurrency
	}

	build := opts.Build
	build.Progress = build.Progress || cfg.Build.Progress

	return &Pipeline{
		config:      cfg,
		logger:      logger,
		scanner:     scanner,
		writer:      writer,
		opts:        build,
		concurrency: concurrency,
	}, nil
}

// newBuildContext assembles the per-run identity threaded through a build
func (p *Pipeline) newBuildContext() *domain.BuildContext {
	return &domain.BuildContext{
		ID:          uuid.NewString(),
		Root:        utils.ExpandPath(p.config.Source.Root),
		OutputPath:  utils.ExpandPath(p.config.Manifest.Output),
		StartedAt:   time.Now(),
		Version:     p.config.Manifest.Version,
		SchemaRef:   p.config.Manifest.SchemaRef,
		StableOrder: p.opts.StableOrder || p.config.Manifest.StableOrder,
	}
}

// Run executes a full build and writes the manifest
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	bctx := p.newBuildContext()
	logger := p.logger.WithBuild(bctx.ID)

	logger.Info().
		Str("root", bctx.Root).
		Str("output", bctx.OutputPath).
		Int("concurrency", p.concurrency).
		Bool("dry_run", p.opts.DryRun).
		Msg("Starting manifest build")

	if !p.opts.DryRun {
		if err := utils.EnsureDir(bctx.OutputPath); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
		}

		// Two builds against one output path must not interleave their
		// temp/rename sequences.
		lock := flock.New(bctx.OutputPath + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: %s", domain.ErrBuildLocked, bctx.OutputPath)
		}
		defer func() { _ = lock.Unlock() }()
	}

	result, err := p.collect(ctx, bctx)
	if err != nil {
		return nil, err
	}

	if result.Candidates > 0 && result.Valid() == 0 {
		return nil, fmt.Errorf("%w: %d candidate(s) under %s",
			domain.ErrNoValidDocuments, result.Candidates, bctx.Root)
	}

	if err := manifest.ValidateManifest(result.Manifest); err != nil {
		return nil, err
	}

	if err := p.writer.Write(result.Manifest, bctx.OutputPath); err != nil {
		return nil, err
	}

	result.Duration = time.Since(bctx.StartedAt)

	logger.Info().
		Int("candidates", result.Candidates).
		Int("valid", result.Valid()).
		Int("skipped", len(result.Skipped)).
		Str("hash", result.Manifest.Hash).
		Dur("duration", result.Duration).
		Msg("Manifest build completed")

	return result, nil
}

// Lint runs the read-only half of the build for diagnostics: the would-be
// manifest plus every skipped document, writing nothing.
func (p *Pipeline) Lint(ctx context.Context) (*Result, error) {
	bctx := p.newBuildContext()

	result, err := p.collect(ctx, bctx)
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(bctx.StartedAt)
	return result, nil
}

// collect locates, extracts, normalizes and validates the corpus, then
// assembles the manifest in memory.
func (p *Pipeline) collect(ctx context.Context, bctx *domain.BuildContext) (*Result, error) {
	logger := p.logger.WithBuild(bctx.ID)
	result := &Result{Context: bctx}

	files, err := p.scanner.Scan(bctx.Root)
	if err != nil {
		return nil, err
	}
	result.Candidates = len(files)

	if len(files) == 0 {
		logger.Warn().Str("root", bctx.Root).Msg("No documents found under content root")
	}

	if info, err := gitinfo.Resolve(bctx.Root); err == nil {
		result.Git = info
		logger.Debug().
			Str("commit", info.Commit).
			Str("branch", info.Branch).
			Msg("Resolved content root provenance")
	}

	type fileWithIndex struct {
		file  domain.SourceFile
		index int
	}

	indexed := make([]fileWithIndex, len(files))
	for i, f := range files {
		indexed[i] = fileWithIndex{file: f, index: i}
	}

	var bar *progressbar.ProgressBar
	if p.opts.Progress && utils.IsTerminal(os.Stderr) {
		bar = utils.NewProgressBar(len(files), utils.DescExtracting)
	}

	raws := make([]*domain.RawFrontmatter, len(files))
	errs := utils.ParallelForEach(ctx, indexed, p.concurrency, func(ctx context.Context, item fileWithIndex) error {
		if bar != nil {
			defer bar.Add(1)
		}

		raw, _, err := frontmatter.ExtractFile(item.file.Path)
		raws[item.index] = raw
		return err
	})

	if ctx.Err() != nil {
		logger.Warn().Msg("Build cancelled")
		return nil, ctx.Err()
	}

	// Assembly is sequential and preserves discovery order.
	docs := make([]domain.DocEntry, 0, len(files))
	for i, file := range files {
		if errs[i] != nil {
			reason := singleLine(errs[i].Error())
			result.Skipped = append(result.Skipped, SkippedDoc{Path: file.RelPath, Reason: reason})
			logger.Warn().Str("path", file.RelPath).Str("reason", reason).Msg("Skipping document")
			continue
		}

		entry := manifest.Normalize(raws[i], file.RelPath)
		if verr := manifest.ValidateEntry(entry); verr != nil {
			reason := singleLine(verr.Error())
			result.Skipped = append(result.Skipped, SkippedDoc{Path: file.RelPath, Reason: reason})
			logger.Warn().Str("path", file.RelPath).Str("reason", reason).Msg("Skipping document")
			continue
		}

		docs = append(docs, entry)
	}

	if bctx.StableOrder {
		sort.Slice(docs, func(i, j int) bool { return docs[i].Slug < docs[j].Slug })
	}

	hash, err := manifest.ComputeHash(docs)
	if err != nil {
		return nil, err
	}

	result.Manifest = &domain.Manifest{
		Schema:      bctx.SchemaRef,
		Version:     bctx.Version,
		GeneratedAt: bctx.GeneratedAt(),
		Hash:        hash,
		Docs:        docs,
	}

	return result, nil
}

// singleLine collapses whitespace runs so skip diagnostics stay on one line
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
