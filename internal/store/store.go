package store

import (
	"context"
	"errors"
	"time"

	"github.com/facilops/chamados-service/internal/model"
	"gorm.io/gorm"
)

// ChamadoStore is the persistence capability set the lifecycle engine needs.
// The GORM implementation below is the production store; tests use it against
// an in-memory SQLite database.
type ChamadoStore interface {
	Insert(ctx context.Context, c *model.Chamado) error
	GetByID(ctx context.Context, id uint64) (*model.Chamado, error)
	// FindActive returns non-deleted tickets ordered by creation time.
	FindActive(ctx context.Context) ([]model.Chamado, error)
	// CompleteIfPending sets completed_at and assignee in a single conditional
	// update. found reports whether the ticket exists and is not soft-deleted;
	// updated whether the write happened (found without updated means it was
	// already completed).
	CompleteIfPending(ctx context.Context, id uint64, at time.Time, assignee string) (found, updated bool, err error)
	// MarkDeleted flips the soft-delete flag. Idempotent.
	MarkDeleted(ctx context.Context, id uint64) (found bool, err error)
	// DeleteCompleted physically removes every ticket with a completion
	// timestamp and reports how many rows went away.
	DeleteCompleted(ctx context.Context) (int64, error)
	// CountActivePending counts non-deleted tickets still waiting.
	CountActivePending(ctx context.Context) (int64, error)
}

type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(ctx context.Context, c *model.Chamado) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) GetByID(ctx context.Context, id uint64) (*model.Chamado, error) {
	var c model.Chamado
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) FindActive(ctx context.Context) ([]model.Chamado, error) {
	var items []model.Chamado
	err := s.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("created_at").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) CompleteIfPending(ctx context.Context, id uint64, at time.Time, assignee string) (found, updated bool, err error) {
	// The idempotency guard is the WHERE clause: the check and the write are
	// one statement, so two racing completions cannot both stamp a timestamp.
	// Soft-deleted tickets are out of reach; the only way out of that state
	// is the purge.
	tx := s.db.WithContext(ctx).Model(&model.Chamado{}).
		Where("id = ? AND completed_at IS NULL AND deleted = ?", id, false).
		Updates(map[string]interface{}{
			"completed_at": at,
			"assignee":     assignee,
		})
	if tx.Error != nil {
		return false, false, tx.Error
	}
	if tx.RowsAffected > 0 {
		return true, true, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Chamado{}).Where("id = ? AND deleted = ?", id, false).Count(&count).Error; err != nil {
		return false, false, err
	}
	return count > 0, false, nil
}

func (s *GormStore) MarkDeleted(ctx context.Context, id uint64) (bool, error) {
	tx := s.db.WithContext(ctx).Model(&model.Chamado{}).
		Where("id = ?", id).
		Update("deleted", true)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (s *GormStore) DeleteCompleted(ctx context.Context) (int64, error) {
	tx := s.db.WithContext(ctx).
		Where("completed_at IS NOT NULL").
		Delete(&model.Chamado{})
	return tx.RowsAffected, tx.Error
}

func (s *GormStore) CountActivePending(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Chamado{}).
		Where("deleted = ? AND completed_at IS NULL", false).
		Count(&count).Error
	return count, err
}
