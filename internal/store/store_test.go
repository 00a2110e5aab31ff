package store

import (
	"context"
	"testing"
	"time"

	"github.com/facilops/chamados-service/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Chamado{}))
	return New(db)
}

func seed(t *testing.T, st *GormStore) *model.Chamado {
	t.Helper()
	c := &model.Chamado{
		Requester:   "Ana",
		Location:    "Recepção",
		Description: "Porta emperrada",
		CreatedAt:   time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.Insert(context.Background(), c))
	return c
}

func TestCompleteIfPending(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	c := seed(t, st)
	at := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	found, updated, err := st.CompleteIfPending(ctx, c.ID, at, "admin")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, updated)

	// Second attempt matches no pending row: found, not updated.
	found, updated, err = st.CompleteIfPending(ctx, c.ID, at.Add(time.Hour), "outro")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, updated)

	got, err := st.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(at), "losing attempt must not restamp")
	assert.Equal(t, "admin", got.Assignee)
}

func TestCompleteIfPending_Missing(t *testing.T) {
	st := newTestStore(t)
	found, updated, err := st.CompleteIfPending(context.Background(), 42, time.Now(), "admin")
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, updated)
}

func TestCompleteIfPending_SoftDeleted(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	c := seed(t, st)

	found, err := st.MarkDeleted(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, updated, err := st.CompleteIfPending(ctx, c.ID, time.Now(), "admin")
	require.NoError(t, err)
	assert.False(t, found, "soft-deleted rows are out of reach")
	assert.False(t, updated)
}

func TestGetByID_Missing(t *testing.T) {
	st := newTestStore(t)
	got, err := st.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindActive_Order(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		c := &model.Chamado{
			Requester:   "Ana",
			Location:    "Recepção",
			Description: "Chamado",
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, st.Insert(ctx, c))
	}

	items, err := st.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.Before(items[i-1].CreatedAt))
	}
}
