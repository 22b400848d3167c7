package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Patch is a partial set of field changes keyed by JSON field name.
// Applying a patch sets each named field to its value; a nil value clears the
// field. When a field is named twice across patches, the last value wins.
type Patch map[string]any

// Fields returns v as a generic field map. Numbers are kept as json.Number.
func Fields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// FromFields decodes a generic field map into a record.
func FromFields[T any](fields map[string]any) (T, error) {
	var out T
	data, err := json.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("from fields: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("from fields: %w", err)
	}
	return out, nil
}

// ApplyPatch merges patch into item and returns the result. Fields not named
// in the patch are left unchanged.
func ApplyPatch[T any](item T, patch Patch) (T, error) {
	fields, err := Fields(item)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("apply patch: %w", err)
	}
	for k, v := range patch {
		if v == nil {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	return FromFields[T](fields)
}

// Merge combines patches left to right; later values win per field.
func Merge(patches ...Patch) Patch {
	out := Patch{}
	for _, p := range patches {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}
