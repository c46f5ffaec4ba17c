package srs_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotCountsMastered(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	scores := map[uuid.UUID]srs.Score{
		a: {Value: 0.995},
		b: {Value: 0.99},
		c: {Value: 0.2},
	}
	deckID := uuid.New()
	snap := srs.NewSnapshot(deckID, scores, 0.99, now)

	assert.Equal(t, deckID, snap.DeckID)
	assert.Equal(t, 1, snap.NumMastered, "the threshold itself is not mastered")
	assert.Equal(t, 3, snap.Len())
	assert.InDelta(t, 0.25, snap.MasteryFraction(4), 1e-12)
	assert.Equal(t, 0.2, snap.Value(c))
	assert.Equal(t, 0.0, snap.Value(uuid.New()), "unknown cards score zero")

	// The snapshot owns a copy of the map.
	scores[c] = srs.Score{Value: 1}
	assert.Equal(t, 0.2, snap.Value(c))
}

func TestSnapshotWithReturnsNewSnapshot(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	first := srs.NewSnapshot(uuid.New(), map[uuid.UUID]srs.Score{a: {Value: 0.1}, b: {Value: 0.5}}, 0.99, now)

	later := now.Add(time.Minute)
	second := first.With(a, srs.Score{Value: 0.999}, later)

	assert.Equal(t, 0.1, first.Value(a))
	assert.Equal(t, 0, first.NumMastered)
	assert.Equal(t, 0.999, second.Value(a))
	assert.Equal(t, 0.5, second.Value(b))
	assert.Equal(t, 1, second.NumMastered)
	assert.Equal(t, later, second.ComputedAt)
	assert.Equal(t, first.DeckID, second.DeckID)
}

func TestNilSnapshot(t *testing.T) {
	t.Parallel()

	var snap *srs.Snapshot
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, 0.0, snap.Value(uuid.New()))
	assert.Equal(t, 0.0, snap.MasteryFraction(10))

	id := uuid.New()
	next := snap.With(id, srs.Score{Value: 1}, now)
	assert.Equal(t, 1, next.NumMastered)
}
