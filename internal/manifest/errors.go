package manifest

import "errors"

// Sentinel errors for manifest loading
var (
	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")

	// ErrInvalidFormat indicates the manifest file is not valid JSON
	ErrInvalidFormat = errors.New("manifest must be valid JSON")
)
