package sampling_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/sampling"
	"github.com/stretchr/testify/assert"
)

func TestRecencyBufferEvictsOldest(t *testing.T) {
	t.Parallel()

	b := sampling.NewRecencyBuffer(3)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	for _, id := range ids {
		b.Push(id)
	}

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 3, b.Cap())
	assert.False(t, b.Contains(ids[0]))
	assert.Equal(t, ids[1:], b.IDs())
}

func TestRecencyBufferRepushMovesToBack(t *testing.T) {
	t.Parallel()

	b := sampling.NewRecencyBuffer(3)
	a, c, d, e := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	b.Push(a)
	b.Push(c)
	b.Push(a)
	assert.Equal(t, []uuid.UUID{c, a}, b.IDs())

	b.Push(d)
	b.Push(e)
	assert.Equal(t, []uuid.UUID{a, d, e}, b.IDs())
}

func TestRecencyBufferZeroCapacity(t *testing.T) {
	t.Parallel()

	b := sampling.NewRecencyBuffer(-1)
	id := uuid.New()
	b.Push(id)
	assert.False(t, b.Contains(id))
	assert.Equal(t, 0, b.Len())

	var nilBuffer *sampling.RecencyBuffer
	nilBuffer.Push(id)
	assert.False(t, nilBuffer.Contains(id))
	assert.Nil(t, nilBuffer.IDs())
}
