package repository

import (
	"context"

	"gorm.io/gorm"

	"finalexam/internal/model"
)

// PracticeRepository persists flashcard practice progress.
type PracticeRepository interface {
	Create(ctx context.Context, progress *model.PracticeProgress) error
	ListByUser(ctx context.Context, userID string) ([]model.PracticeProgress, error)
}

type practiceRepository struct {
	db *gorm.DB
}

// NewPracticeRepository builds a GORM-backed repository.
func NewPracticeRepository(db *gorm.DB) PracticeRepository {
	return &practiceRepository{db: db}
}

func (r *practiceRepository) Create(ctx context.Context, progress *model.PracticeProgress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

func (r *practiceRepository) ListByUser(ctx context.Context, userID string) ([]model.PracticeProgress, error) {
	var records []model.PracticeProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
