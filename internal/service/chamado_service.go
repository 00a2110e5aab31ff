package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facilops/chamados-service/internal/errs"
	"github.com/facilops/chamados-service/internal/model"
	"github.com/facilops/chamados-service/internal/store"
)

// ChamadoService enforces the ticket lifecycle: a ticket is created pending,
// completed at most once, optionally soft-deleted, and physically removed only
// by the bulk purge. There is no reopen.
type ChamadoService struct {
	store store.ChamadoStore
	loc   *time.Location
	now   func() time.Time
}

func NewChamadoService(st store.ChamadoStore, loc *time.Location) *ChamadoService {
	return &ChamadoService{
		store: st,
		loc:   loc,
		now:   time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (s *ChamadoService) WithClock(now func() time.Time) *ChamadoService {
	s.now = now
	return s
}

// Submit validates the three required fields and persists a new pending
// ticket stamped in the service's fixed timezone.
func (s *ChamadoService) Submit(ctx context.Context, requester, location, description string) (*model.Chamado, error) {
	requester = strings.TrimSpace(requester)
	location = strings.TrimSpace(location)
	description = strings.TrimSpace(description)
	switch {
	case requester == "":
		return nil, fmt.Errorf("%w: solicitante", errs.ErrValidation)
	case location == "":
		return nil, fmt.Errorf("%w: local", errs.ErrValidation)
	case description == "":
		return nil, fmt.Errorf("%w: descrição", errs.ErrValidation)
	}
	c := &model.Chamado{
		Requester:   requester,
		Location:    location,
		Description: description,
		CreatedAt:   s.now().In(s.loc),
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("insert chamado: %w", err)
	}
	return c, nil
}

// Complete stamps completed_at (and the assignee) once. A second call returns
// ErrAlreadyCompleted with the ticket unchanged; callers treat that as a
// successful no-op.
func (s *ChamadoService) Complete(ctx context.Context, id uint64, assignee string) (*model.Chamado, error) {
	found, updated, err := s.store.CompleteIfPending(ctx, id, s.now().In(s.loc), strings.TrimSpace(assignee))
	if err != nil {
		return nil, fmt.Errorf("complete chamado %d: %w", id, err)
	}
	if !found {
		return nil, errs.ErrChamadoNotFound
	}
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload chamado %d: %w", id, err)
	}
	if !updated {
		return c, errs.ErrAlreadyCompleted
	}
	return c, nil
}

// SoftDelete hides the ticket from every listing and report. Re-applying to an
// already-deleted ticket is a no-op success.
func (s *ChamadoService) SoftDelete(ctx context.Context, id uint64) error {
	found, err := s.store.MarkDeleted(ctx, id)
	if err != nil {
		return fmt.Errorf("delete chamado %d: %w", id, err)
	}
	if !found {
		return errs.ErrChamadoNotFound
	}
	return nil
}

// PurgeCompleted physically removes every completed ticket, deleted or not,
// and reports the count. Pending tickets are untouched; a second consecutive
// call removes zero.
func (s *ChamadoService) PurgeCompleted(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteCompleted(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge completed: %w", err)
	}
	return n, nil
}

// ListActive returns non-deleted tickets in creation order.
func (s *ChamadoService) ListActive(ctx context.Context) ([]model.Chamado, error) {
	return s.store.FindActive(ctx)
}

// Get returns a ticket by id regardless of the soft-delete flag.
func (s *ChamadoService) Get(ctx context.Context, id uint64) (*model.Chamado, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.ErrChamadoNotFound
	}
	return c, nil
}

// PendingCount counts non-deleted pending tickets, for the admin header.
func (s *ChamadoService) PendingCount(ctx context.Context) (int64, error) {
	return s.store.CountActivePending(ctx)
}
