package service

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// applyPatch applies an RFC 6902 document to doc and returns the patched copy.
func applyPatch[T any](doc T, patchJSON []byte) (T, error) {
	var out T

	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	original, err := json.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("failed to encode patch target: %w", err)
	}

	patched, err := patch.Apply(original)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	if err := json.Unmarshal(patched, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	return out, nil
}
