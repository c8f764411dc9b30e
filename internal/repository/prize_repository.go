package repository

import (
	"context"

	"gorm.io/gorm"

	"finalexam/internal/model"
)

// PrizeRepository persists prize redemptions.
type PrizeRepository interface {
	Create(ctx context.Context, redemption *model.PrizeRedemption) error
}

type prizeRepository struct {
	db *gorm.DB
}

// NewPrizeRepository builds a GORM-backed repository.
func NewPrizeRepository(db *gorm.DB) PrizeRepository {
	return &prizeRepository{db: db}
}

func (r *prizeRepository) Create(ctx context.Context, redemption *model.PrizeRedemption) error {
	return r.db.WithContext(ctx).Create(redemption).Error
}
