package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Challenge status values. Transitions only move forward:
// pending -> active -> completed. Expired is a time-based terminal state
// assigned by an external sweep, never by the API itself.
const (
	ChallengeStatusPending   = "pending"
	ChallengeStatusActive    = "active"
	ChallengeStatusCompleted = "completed"
	ChallengeStatusExpired   = "expired"
)

// ChallengeExpiry is how long a freshly created challenge stays joinable.
const ChallengeExpiry = 7 * 24 * time.Hour

// Challenge is an asynchronous two-player match identified by a short
// human-shareable code. Both players replay the same question order derived
// from QuestionSeed.
type Challenge struct {
	ID                     string       `json:"id" gorm:"type:char(36);primaryKey"`
	ChallengeCode          string       `json:"challenge_code" gorm:"uniqueIndex;size:6;not null"`
	ChallengerID           string       `json:"challenger_id" gorm:"type:char(36);index;not null"`
	OpponentID             *string      `json:"opponent_id" gorm:"type:char(36);index"`
	QuestionSeed           int64        `json:"question_seed" gorm:"not null"`
	Status                 string       `json:"status" gorm:"size:16;default:'pending';index"`
	ChallengerScore        *int         `json:"challenger_score"`
	OpponentScore          *int         `json:"opponent_score"`
	ChallengerRoundResults RoundResults `json:"challenger_round_results" gorm:"type:json"`
	OpponentRoundResults   RoundResults `json:"opponent_round_results" gorm:"type:json"`
	ChallengerTeamMembers  TeamMembers  `json:"challenger_team_members" gorm:"type:json"`
	OpponentTeamMembers    TeamMembers  `json:"opponent_team_members" gorm:"type:json"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
	ExpiresAt              time.Time    `json:"expires_at"`

	// Display names of the two parties, filled in when listing or fetching.
	ChallengerUsername string  `json:"challenger_username,omitempty" gorm:"-"`
	OpponentUsername   *string `json:"opponent_username,omitempty" gorm:"-"`
}

// BeforeCreate sets UUID and expiry before creating the record.
func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ExpiresAt.IsZero() {
		c.ExpiresAt = time.Now().Add(ChallengeExpiry)
	}
	return nil
}
