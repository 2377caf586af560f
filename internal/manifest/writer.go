package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/docsmith-io/docsmith/internal/domain"
	"github.com/docsmith-io/docsmith/internal/utils"
)

// Writer persists manifest artifacts to the filesystem
type Writer struct {
	dryRun     bool
	compress   bool
	emitSchema bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	// DryRun computes everything but writes nothing
	DryRun bool
	// Compress also writes a gzip sidecar next to the manifest
	Compress bool
	// EmitSchema publishes the embedded JSON schema next to the manifest
	EmitSchema bool
}

// NewWriter creates a new manifest writer
func NewWriter(opts WriterOptions) *Writer {
	return &Writer{
		dryRun:     opts.DryRun,
		compress:   opts.Compress,
		emitSchema: opts.EmitSchema,
	}
}

// Encode renders the manifest as indented JSON with a trailing newline
func Encode(m *domain.Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Write atomically replaces the manifest at path. Content lands in a temp
// file first and moves into place only on success, so a failed write never
// corrupts a previously published manifest.
func (w *Writer) Write(m *domain.Manifest, path string) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}

	if w.dryRun {
		return nil
	}

	if err := utils.EnsureDir(path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	if err := utils.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}

	if w.compress {
		if err := w.writeCompressed(data, path+".gz"); err != nil {
			return err
		}
	}

	if w.emitSchema {
		schemaPath := filepath.Join(filepath.Dir(path), SchemaFilename)
		if err := utils.WriteFileAtomic(schemaPath, SchemaJSON, 0644); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
		}
	}

	return nil
}

// writeCompressed writes a gzip sidecar carrying the same payload
func (w *Writer) writeCompressed(data []byte, path string) error {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}

	if err := utils.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	return nil
}
