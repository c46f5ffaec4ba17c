package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/platform/sqlite"
	"github.com/phrazzld/scry-drill/internal/store"
	"github.com/phrazzld/scry-drill/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *sqlite.SQLiteEventStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "drill.db")
	s, err := sqlite.Open(context.Background(), path, nil)
	require.NoError(t, err)
	return s
}

func TestSQLiteEventStore(t *testing.T) {
	t.Parallel()

	storetest.RunEventStoreTests(t, func(t *testing.T) store.EventStore {
		return openTestStore(t)
	})
}

func TestSQLiteEventStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "drill.db")
	deckID, cardID := uuid.New(), uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s, err := sqlite.Open(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, storetest.NewEvent(t, deckID, cardID, true, at)))
	require.NoError(t, s.Close())

	// Reopening re-runs migrations, which must be a no-op.
	reopened, err := sqlite.Open(ctx, path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	events, err := reopened.ListByCard(ctx, deckID, cardID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, at.Equal(events[0].AnsweredAt))
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := sqlite.Open(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestMapErrorPassesThroughUnknown(t *testing.T) {
	t.Parallel()

	assert.NoError(t, sqlite.MapError(nil))
	err := assert.AnError
	assert.Same(t, err, sqlite.MapError(err))
	assert.False(t, sqlite.IsUniqueViolation(err))
}
