package sampling

import (
	"slices"

	"github.com/google/uuid"
)

// RecencyBuffer is a fixed-capacity FIFO of recently asked card IDs.
// It is not safe for concurrent use; a study session owns one.
type RecencyBuffer struct {
	ids      []uuid.UUID
	capacity int
}

// NewRecencyBuffer creates an empty buffer. A capacity of zero or less
// remembers nothing.
func NewRecencyBuffer(capacity int) *RecencyBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &RecencyBuffer{
		ids:      make([]uuid.UUID, 0, capacity),
		capacity: capacity,
	}
}

// Push records id as the most recent card, evicting the oldest entry when full.
// An id already present moves to the most recent position.
func (b *RecencyBuffer) Push(id uuid.UUID) {
	if b == nil || b.capacity == 0 {
		return
	}
	if i := slices.Index(b.ids, id); i >= 0 {
		b.ids = slices.Delete(b.ids, i, i+1)
	}
	if len(b.ids) == b.capacity {
		b.ids = slices.Delete(b.ids, 0, 1)
	}
	b.ids = append(b.ids, id)
}

// Contains reports whether id is among the recent cards.
func (b *RecencyBuffer) Contains(id uuid.UUID) bool {
	if b == nil {
		return false
	}
	return slices.Contains(b.ids, id)
}

// Len returns the number of remembered cards.
func (b *RecencyBuffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.ids)
}

// Cap returns the buffer capacity.
func (b *RecencyBuffer) Cap() int {
	if b == nil {
		return 0
	}
	return b.capacity
}

// IDs returns the remembered IDs, oldest first.
func (b *RecencyBuffer) IDs() []uuid.UUID {
	if b == nil {
		return nil
	}
	return slices.Clone(b.ids)
}
