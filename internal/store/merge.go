package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidPatch is returned when a partial update is not a JSON object
// or does not fit the entity's field types.
var ErrInvalidPatch = errors.New("patch must be a JSON object matching the entity fields")

// ValidatePatch checks that patch is a JSON object without touching any state
func ValidatePatch(patch []byte) error {
	if !gjson.ValidBytes(patch) || !gjson.ParseBytes(patch).IsObject() {
		return ErrInvalidPatch
	}
	return nil
}

// mergeShallow overlays the top-level keys of patch onto doc.
// Nested objects and arrays are replaced, never merged. The id key is immutable.
func mergeShallow(doc, patch []byte) ([]byte, error) {
	if err := ValidatePatch(patch); err != nil {
		return nil, err
	}

	out := doc
	var setErr error
	gjson.ParseBytes(patch).ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == "id" {
			return true
		}
		out, setErr = sjson.SetRawBytes(out, escapePath(name), []byte(value.Raw))
		return setErr == nil
	})
	if setErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, setErr)
	}
	return out, nil
}

// applyPatch returns current with patch shallow-merged into it
func applyPatch[T any](current T, patch []byte) (T, error) {
	var zero T
	doc, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("encode entity: %w", err)
	}
	merged, err := mergeShallow(doc, patch)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return out, nil
}

const pathMeta = `\.*?|#@:`

// escapePath makes an object key safe to use as an sjson path
func escapePath(key string) string {
	if !strings.ContainsAny(key, pathMeta) {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(pathMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
