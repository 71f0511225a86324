package sqlite

import (
	"encoding/json"

	"github.com/Masterminds/squirrel"
)

// Helper functions shared across repository implementations

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// marshalJSON encodes a value for a JSON text column, falling back to
// an empty array on a nil slice so the column default holds.
func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

func unmarshalJSON[T any](raw string) []T {
	if raw == "" {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
