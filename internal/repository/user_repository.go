package repository

import (
	"context"

	"gorm.io/gorm"

	"finalexam/internal/model"
)

// UserRepository defines user persistence operations. Every mutating
// operation that targets a specific user filters by that user's id in the
// update predicate itself.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]model.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, avatar string) error
	RecordGameResult(ctx context.Context, id string, points int, won bool) error
	SpendPoints(ctx context.Context, id string, cost int) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) (map[string]model.User, error) {
	users := make(map[string]model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var rows []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

func (r *userRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id, avatar string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("avatar", avatar).Error
}

// RecordGameResult atomically bumps the session counters so concurrent
// submissions never lose increments.
func (r *userRepository) RecordGameResult(ctx context.Context, id string, points int, won bool) error {
	updates := map[string]interface{}{
		"total_points": gorm.Expr("total_points + ?", points),
		"games_played": gorm.Expr("games_played + 1"),
	}
	if won {
		updates["games_won"] = gorm.Expr("games_won + 1")
	}
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SpendPoints deducts cost only when the balance covers it; the guard lives
// in the update predicate to avoid a check-then-act race.
func (r *userRepository) SpendPoints(ctx context.Context, id string, cost int) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND total_points >= ?", id, cost).
		Update("total_points", gorm.Expr("total_points - ?", cost))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
