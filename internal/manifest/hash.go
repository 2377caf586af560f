package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/docsmith-io/docsmith/internal/domain"
)

// HashLength is the length in hex characters of the manifest integrity hash.
const HashLength = 16

// ComputeHash returns the truncated sha256 digest of the canonical JSON
// serialization of docs. Top-level manifest fields are excluded, so the
// digest changes only when document content or ordering changes, never
// when generated_at moves.
func ComputeHash(docs []domain.DocEntry) (string, error) {
	if docs == nil {
		docs = []domain.DocEntry{}
	}
	payload, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("failed to serialize docs for hashing: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])[:HashLength], nil
}
