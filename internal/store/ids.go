package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// JoinIDs encodes a list of IDs as a comma-separated string for SQL columns
// that hold the distractors of an answer event.
func JoinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

// SplitIDs decodes a string produced by JoinIDs. An empty string yields nil.
func SplitIDs(joined string) ([]uuid.UUID, error) {
	if joined == "" {
		return nil, nil
	}
	parts := strings.Split(joined, ",")
	ids := make([]uuid.UUID, len(parts))
	for i, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid alternative id %q: %v", ErrInvalidEntity, p, err)
		}
		ids[i] = id
	}
	return ids, nil
}
