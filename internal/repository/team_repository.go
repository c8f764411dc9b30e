package repository

import (
	"context"

	"gorm.io/gorm"

	"finalexam/internal/model"
)

// TeamRepository persists saved teams. Update and Delete filter by owner in
// the predicate itself, so a non-owner's request simply matches no rows.
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Team, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Team, error)
	Update(ctx context.Context, id, ownerID string, updates map[string]interface{}) error
	Delete(ctx context.Context, id, ownerID string) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository builds a GORM-backed repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Team{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

func (r *teamRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) Update(ctx context.Context, id, ownerID string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Team{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Team{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
