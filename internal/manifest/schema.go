package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docsmith-io/docsmith/internal/domain"
)

// SchemaFilename is the name the schema artifact is published under. It
// matches the default $schema reference emitted in manifests.
const SchemaFilename = "manifest.schema.json"

//go:embed manifest.schema.json
var SchemaJSON []byte

// ValidateManifest runs JSON-Schema validation of m against the embedded
// manifest schema. Violations wrap domain.ErrManifestInvalid.
func ValidateManifest(m *domain.Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}
	return ValidateBytes(data)
}

// ValidateBytes validates a serialized manifest against the embedded schema.
func ValidateBytes(data []byte) error {
	schema, err := jsonschema.CompileString(SchemaFilename, string(SchemaJSON))
	if err != nil {
		return fmt.Errorf("failed to compile manifest schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrManifestInvalid, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrManifestInvalid, err)
	}
	return nil
}
