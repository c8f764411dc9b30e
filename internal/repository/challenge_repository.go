package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"finalexam/internal/model"
)

// ChallengeRepository defines challenge persistence operations. Score updates
// are scoped by the owner column (challenger_id or opponent_id) so the two
// participants' writes never contend on the same guarded field.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *model.Challenge) error
	FindByID(ctx context.Context, id string) (*model.Challenge, error)
	FindByCode(ctx context.Context, code string) (*model.Challenge, error)
	ListForUser(ctx context.Context, userID string) ([]model.Challenge, error)
	SetOpponent(ctx context.Context, id, opponentID string) error
	RecordChallengerResult(ctx context.Context, id, challengerID string, score int, results model.RoundResults, members model.TeamMembers) error
	RecordOpponentResult(ctx context.Context, id, opponentID string, score int, results model.RoundResults, members model.TeamMembers) error
}

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository builds a GORM-backed repository.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *model.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *challengeRepository) FindByID(ctx context.Context, id string) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) FindByCode(ctx context.Context, code string) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.WithContext(ctx).Where("challenge_code = ?", code).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) ListForUser(ctx context.Context, userID string) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.db.WithContext(ctx).
		Where("challenger_id = ? OR opponent_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

// SetOpponent claims the open opponent slot. The predicate only matches while
// the slot is empty or already held by the same user, so a second joiner
// cannot overwrite the first; idempotent rejoins succeed.
func (r *challengeRepository) SetOpponent(ctx context.Context, id, opponentID string) error {
	result := r.db.WithContext(ctx).Model(&model.Challenge{}).
		Where("id = ? AND (opponent_id IS NULL OR opponent_id = ?)", id, opponentID).
		Updates(map[string]interface{}{
			"opponent_id": opponentID,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordChallengerResult writes the score and activates the challenge.
// updated_at is always written: MySQL counts changed rows, not matched rows,
// so without it a byte-identical resubmission would report zero rows and read
// as not found.
func (r *challengeRepository) RecordChallengerResult(ctx context.Context, id, challengerID string, score int, results model.RoundResults, members model.TeamMembers) error {
	result := r.db.WithContext(ctx).Model(&model.Challenge{}).
		Where("id = ? AND challenger_id = ?", id, challengerID).
		Updates(map[string]interface{}{
			"challenger_score":         score,
			"challenger_round_results": results,
			"challenger_team_members":  members,
			"status":                   model.ChallengeStatusActive,
			"updated_at":               time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *challengeRepository) RecordOpponentResult(ctx context.Context, id, opponentID string, score int, results model.RoundResults, members model.TeamMembers) error {
	result := r.db.WithContext(ctx).Model(&model.Challenge{}).
		Where("id = ? AND opponent_id = ?", id, opponentID).
		Updates(map[string]interface{}{
			"opponent_score":         score,
			"opponent_round_results": results,
			"opponent_team_members":  members,
			"status":                 model.ChallengeStatusCompleted,
			"updated_at":             time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
