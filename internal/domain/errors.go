package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrRootNotFound indicates the content root does not exist
	ErrRootNotFound = errors.New("content root not found")

	// ErrRootNotDirectory indicates the content root is not a directory
	ErrRootNotDirectory = errors.New("content root is not a directory")

	// ErrMalformedFrontmatter indicates frontmatter that could not be parsed
	ErrMalformedFrontmatter = errors.New("malformed frontmatter")

	// ErrMissingTitle indicates a document without a usable title
	ErrMissingTitle = errors.New("missing or empty title")

	// ErrNoValidDocuments indicates a corpus where every candidate failed validation
	ErrNoValidDocuments = errors.New("no valid documents in corpus")

	// ErrWriteFailed indicates writing the manifest failed
	ErrWriteFailed = errors.New("write failed")

	// ErrBuildLocked indicates another build holds the output lock
	ErrBuildLocked = errors.New("another build holds the lock")

	// ErrManifestStale indicates a manifest whose hash no longer matches the corpus
	ErrManifestStale = errors.New("manifest out of date")

	// ErrManifestInvalid indicates a manifest that fails schema validation
	ErrManifestInvalid = errors.New("manifest failed schema validation")
)

// FileError represents a per-file failure during extraction. Files that
// fail this way are skipped; they never abort a build.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError creates a new FileError
func NewFileError(path string, err error) *FileError {
	return &FileError{
		Path: path,
		Err:  err,
	}
}

// ValidationError represents a document excluded by validation. Its Error
// string is the single-line diagnostic logged for the rejected file.
type ValidationError struct {
	Path   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Path, e.Field, e.Reason)
}

// NewValidationError creates a new ValidationError
func NewValidationError(path, field, reason string) *ValidationError {
	return &ValidationError{
		Path:   path,
		Field:  field,
		Reason: reason,
	}
}

// IsSkippable reports whether err is a per-document failure that the build
// tolerates, as opposed to a fatal pipeline error.
func IsSkippable(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return true
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return true
	}
	return errors.Is(err, ErrMalformedFrontmatter) || errors.Is(err, ErrMissingTitle)
}
