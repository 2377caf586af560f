package manifest

import (
	"github.com/docsmith-io/docsmith/internal/domain"
)

// ValidateEntry enforces the inclusion contract: a document enters the
// manifest only when it carries a non-empty title. Every other field was
// already defaulted by Normalize, so title is the single gate.
func ValidateEntry(entry domain.DocEntry) error {
	if entry.Title == "" {
		return domain.NewValidationError(entry.Path, "title", "missing or empty")
	}
	return nil
}
