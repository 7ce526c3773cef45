package util

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodePayload converts a loosely typed payload into the struct pointed to
// by out using the struct's json tags. A nil payload decodes as an empty
// object.
func DecodePayload(payload map[string]any, out any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Normalize converts v into its generic JSON form (map[string]any, []any,
// float64, string, bool, nil) so that typed values can be inspected the same
// way as decoded payloads.
func Normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
