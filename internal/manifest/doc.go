// Package manifest turns extracted document metadata into the versioned
// manifest artifact the docs runtime consumes, and reads such artifacts
// back for verification.
//
// # Manifest Format
//
// A manifest is a single JSON object:
//
//	{
//	  "$schema": "./manifest.schema.json",
//	  "version": "1.0.0",
//	  "generated_at": "2025-03-01T00:00:00.000Z",
//	  "hash": "a1b2c3d4e5f60718",
//	  "docs": [ { "path": "/guides/setup.md", "slug": "guides/setup", ... } ]
//	}
//
// The hash is computed over the docs array only, so it stays stable across
// rebuilds of an unchanged corpus while generated_at moves.
//
// # Usage
//
// Normalize loose frontmatter into entries, hash and write:
//
//	entry := manifest.Normalize(raw, "guides/setup.md")
//	hash, err := manifest.ComputeHash(docs)
//	writer := manifest.NewWriter(manifest.WriterOptions{})
//	err = writer.Write(m, "public/manifest.json")
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrFileNotFound: manifest artifact does not exist
//   - ErrInvalidFormat: file is not valid JSON
//
// Write failures wrap domain.ErrWriteFailed; schema violations wrap
// domain.ErrManifestInvalid.
package manifest
