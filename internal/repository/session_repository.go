package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"finalexam/internal/model"
)

// SessionRepository persists game sessions and their leaderboard entries.
type SessionRepository interface {
	Create(ctx context.Context, session *model.GameSession) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.GameSession, error)
	CreateLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error
	TopEntries(ctx context.Context, since *time.Time, limit int) ([]model.LeaderboardEntry, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository builds a GORM-backed repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.GameSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.GameSession, error) {
	var sessions []model.GameSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) CreateLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// TopEntries returns the highest scores, newest period first, with the owning
// user preloaded. A nil since means all-time.
func (r *sessionRepository) TopEntries(ctx context.Context, since *time.Time, limit int) ([]model.LeaderboardEntry, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Order("score DESC").
		Limit(limit)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var entries []model.LeaderboardEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
