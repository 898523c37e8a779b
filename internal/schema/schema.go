// Package schema validates preference documents before they reach the store.
package schema

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spec-kit/subscriber-service/internal/domain"
	"github.com/spec-kit/subscriber-service/pkg/util"
)

// Validate checks a decoded preference body against the structural contract:
// only the keys "sub" and "notif" are allowed, both optional; "sub" must be
// an array of strings; "notif" must be an array of known notification
// categories. A nil return means the document may be persisted as-is.
func Validate(doc map[string]any) error {
	for key := range doc {
		switch key {
		case "sub", "notif":
		default:
			return util.NewValidationError(
				fmt.Sprintf("unexpected key %q", key),
				map[string]any{"path": key},
			)
		}
	}

	if raw, ok := doc["sub"]; ok {
		if err := checkStringArray("sub", raw, nil); err != nil {
			return err
		}
	}
	if raw, ok := doc["notif"]; ok {
		if err := checkStringArray("notif", raw, domain.IsKnownCategory); err != nil {
			return err
		}
	}
	return nil
}

// Normalize returns the sub/notif arrays of a validated document, defaulting
// absent keys to empty sets. Callers must Validate first.
func Normalize(doc map[string]any) (sub, notif []string) {
	return stringItems(doc["sub"]), stringItems(doc["notif"])
}

func checkStringArray(path string, raw any, member func(string) bool) error {
	items, ok := asArray(raw)
	if !ok {
		return util.NewValidationError(
			fmt.Sprintf("%s must be an array of strings", path),
			map[string]any{"path": path},
		)
	}
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return util.NewValidationError(
				fmt.Sprintf("%s[%d] must be a string", path, i),
				map[string]any{"path": fmt.Sprintf("%s[%d]", path, i)},
			)
		}
		if member != nil && !member(s) {
			return util.NewValidationError(
				fmt.Sprintf("%s[%d]: unknown category %q", path, i, s),
				map[string]any{"path": fmt.Sprintf("%s[%d]", path, i)},
			)
		}
	}
	return nil
}

// asArray accepts the shapes arrays arrive in: []any from encoding/json,
// primitive.A from bson decoding, []string from in-process callers.
func asArray(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case primitive.A:
		return []any(v), true
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	default:
		return nil, false
	}
}

func stringItems(raw any) []string {
	items, ok := asArray(raw)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
