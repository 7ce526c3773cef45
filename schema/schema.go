// Package schema loads JSON Schema documents and validates instances against
// them using github.com/google/jsonschema-go.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/hupe1980/agentharness/internal/util"
)

// ErrInvalidSchema wraps failures to parse or resolve a schema document.
var ErrInvalidSchema = errors.New("invalid schema")

// Document is a JSON Schema in its generic JSON form. A nil or empty
// Document accepts every instance.
type Document map[string]any

// Load reads a JSON Schema from path. A missing file yields an empty
// Document; unreadable or malformed files are reported.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, path, err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Validate checks instance against doc. It returns nil when the instance is
// valid, an error wrapping ErrInvalidSchema when doc itself is unusable, and
// the validator's error otherwise.
func Validate(instance any, doc Document) error {
	if doc == nil {
		return ValidateValue(instance, nil)
	}
	return ValidateValue(instance, map[string]any(doc))
}

// ValidateValue is Validate for a schema in any JSON form, including the
// boolean schemas true (accept all) and false (reject all). A nil schema
// accepts every instance.
func ValidateValue(instance, sch any) error {
	resolved, err := compile(sch)
	if err != nil {
		return err
	}

	normalized, err := util.Normalize(instance)
	if err != nil {
		return fmt.Errorf("instance is not JSON encodable: %w", err)
	}

	return resolved.Validate(normalized)
}

// IsValid reports whether instance satisfies doc. Unusable schemas count as
// invalid.
func IsValid(instance any, doc Document) bool {
	return Validate(instance, doc) == nil
}

func compile(sch any) (*jsonschema.Resolved, error) {
	// JSON null would decode as the false schema.
	if sch == nil {
		sch = map[string]any{}
	}
	raw, err := json.Marshal(sch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return resolved, nil
}
