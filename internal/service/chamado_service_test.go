package service

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/facilops/chamados-service/internal/errs"
	"github.com/facilops/chamados-service/internal/model"
	"github.com/facilops/chamados-service/internal/store"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeClock hands out strictly increasing instants so timestamp comparisons
// are deterministic.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time {
	f.t = f.t.Add(time.Minute)
	return f.t
}

func newTestService(t *testing.T) *ChamadoService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Chamado{}))

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, loc)}
	return NewChamadoService(store.New(db), loc).WithClock(clock.Now)
}

func TestSubmit_CreatesPendingChamado(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Submit(ctx, "  Maria Silva  ", " Bloco B ", " Lâmpada queimada ")
	require.NoError(t, err)
	require.NotZero(t, c.ID)

	assert.Equal(t, "Maria Silva", c.Requester)
	assert.Equal(t, "Bloco B", c.Location)
	assert.Equal(t, "Lâmpada queimada", c.Description)
	assert.Nil(t, c.CompletedAt)
	assert.Empty(t, c.Assignee)
	assert.False(t, c.Deleted)
	assert.Equal(t, model.StatusPending, c.Status())
	assert.Equal(t, "America/Sao_Paulo", c.CreatedAt.Location().String())
}

func TestSubmit_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name                             string
		requester, location, description string
	}{
		{"empty requester", "", "Bloco A", "Vazamento"},
		{"empty location", "João", "", "Vazamento"},
		{"empty description", "João", "Bloco A", ""},
		{"whitespace only", "   ", "Bloco A", "Vazamento"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.requester, tc.location, tc.description)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}

	items, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "failed submissions must not persist anything")
}

func TestComplete_Idempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Submit(ctx, "Ana", "Recepção", "Porta emperrada")
	require.NoError(t, err)

	first, err := svc.Complete(ctx, c.ID, "admin")
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)
	assert.Equal(t, model.StatusCompleted, first.Status())
	assert.Equal(t, "admin", first.Assignee)
	assert.False(t, first.CompletedAt.Before(first.CreatedAt))

	second, err := svc.Complete(ctx, c.ID, "outro")
	assert.ErrorIs(t, err, errs.ErrAlreadyCompleted)
	require.NotNil(t, second.CompletedAt)
	assert.True(t, second.CompletedAt.Equal(*first.CompletedAt), "second call must not restamp")
	assert.Equal(t, "admin", second.Assignee, "second call must not reassign")
}

func TestComplete_NotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Complete(ctx, 9999, "admin")
	assert.ErrorIs(t, err, errs.ErrChamadoNotFound)

	items, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestComplete_SoftDeletedIsUnreachable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Submit(ctx, "Ana", "Recepção", "Porta emperrada")
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, c.ID))

	_, err = svc.Complete(ctx, c.ID, "admin")
	assert.ErrorIs(t, err, errs.ErrChamadoNotFound)
}

func TestSoftDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Submit(ctx, "Ana", "Recepção", "Porta emperrada")
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, c.ID))
	require.NoError(t, svc.SoftDelete(ctx, c.ID), "re-applying is a no-op")

	items, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Still reachable by id until the purge removes it.
	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
}

func TestSoftDelete_NotFound(t *testing.T) {
	svc := newTestService(t)
	assert.ErrorIs(t, svc.SoftDelete(context.Background(), 123), errs.ErrChamadoNotFound)
}

func TestPurgeCompleted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Submit(ctx, "Ana", "Recepção", "Porta emperrada")
	require.NoError(t, err)
	b, err := svc.Submit(ctx, "Bruno", "Garagem", "Portão não abre")
	require.NoError(t, err)
	p, err := svc.Submit(ctx, "Carla", "Cozinha", "Torneira pingando")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, a.ID, "admin")
	require.NoError(t, err)
	_, err = svc.Complete(ctx, b.ID, "admin")
	require.NoError(t, err)
	// A completed ticket that was later hidden is still purged.
	require.NoError(t, svc.SoftDelete(ctx, b.ID))

	n, err := svc.PurgeCompleted(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// The pending ticket survives.
	items, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ID)

	// The purged ones are physically gone.
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, errs.ErrChamadoNotFound)
	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, errs.ErrChamadoNotFound)

	n, err = svc.PurgeCompleted(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "second consecutive purge removes nothing")
}

func TestLifecycleScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Submit(ctx, "Ana", "Recepção", "Porta emperrada")
	require.NoError(t, err)
	b, err := svc.Submit(ctx, "Bruno", "Garagem", "Portão não abre")
	require.NoError(t, err)
	c, err := svc.Submit(ctx, "Carla", "Cozinha", "Torneira pingando")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, b.ID, "admin")
	require.NoError(t, err)

	items, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	byID := map[uint64]model.Chamado{}
	for _, it := range items {
		byID[it.ID] = it
	}
	assert.Equal(t, model.StatusPending, byID[a.ID].Status())
	assert.Equal(t, model.StatusPending, byID[c.ID].Status())
	completed := byID[b.ID]
	assert.Equal(t, model.StatusCompleted, completed.Status())
	require.NotNil(t, completed.CompletedAt)
	assert.False(t, completed.CompletedAt.Before(completed.CreatedAt))

	require.NoError(t, svc.SoftDelete(ctx, a.ID))
	items, err = svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.NotEqual(t, a.ID, it.ID)
	}

	pending, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending, "only C is active and pending")
}
