package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/docsmith-io/docsmith/internal/domain"
)

// Loader reads previously written manifest artifacts
type Loader struct{}

// NewLoader creates a new manifest loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a manifest file from the given path
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	return l.LoadFromBytes(data)
}

// LoadFromBytes parses a manifest from raw JSON bytes
func (l *Loader) LoadFromBytes(data []byte) (*domain.Manifest, error) {
	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if m.Docs == nil {
		m.Docs = []domain.DocEntry{}
	}

	return &m, nil
}
