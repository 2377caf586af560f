package app

import (
	"context"
	"fmt"
	"os"

	"github.com/docsmith-io/docsmith/internal/gitinfo"
	"github.com/docsmith-io/docsmith/internal/manifest"
)

// VerifyResult describes how a published manifest compares to the corpus
type VerifyResult struct {
	ManifestHash string
	CurrentHash  string
	GeneratedAt  string
	InSync       bool
	Candidates   int
	Skipped      int
	Git          *gitinfo.Info
}

// Verify recomputes the corpus digest and checks the published manifest
// against it and against the embedded schema. A build that used stable
// ordering must be verified with stable ordering too, since the digest
// covers document order.
func (p *Pipeline) Verify(ctx context.Context) (*VerifyResult, error) {
	bctx := p.newBuildContext()
	logger := p.logger.WithBuild(bctx.ID)

	raw, err := os.ReadFile(bctx.OutputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", manifest.ErrFileNotFound, bctx.OutputPath)
		}
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	loader := manifest.NewLoader()
	published, err := loader.LoadFromBytes(raw)
	if err != nil {
		return nil, err
	}

	// Validate the artifact as written, not a round-trip of it, so stray
	// keys and shape drift are caught too.
	if err := manifest.ValidateBytes(raw); err != nil {
		return nil, err
	}

	result, err := p.collect(ctx, bctx)
	if err != nil {
		return nil, err
	}

	verify := &VerifyResult{
		ManifestHash: published.Hash,
		CurrentHash:  result.Manifest.Hash,
		GeneratedAt:  published.GeneratedAt,
		InSync:       published.Hash == result.Manifest.Hash,
		Candidates:   result.Candidates,
		Skipped:      len(result.Skipped),
		Git:          result.Git,
	}

	logger.Info().
		Str("manifest_hash", verify.ManifestHash).
		Str("current_hash", verify.CurrentHash).
		Bool("in_sync", verify.InSync).
		Msg("Manifest verification completed")

	return verify, nil
}
