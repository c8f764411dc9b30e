package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameSession records one completed play-through and the points it earned.
type GameSession struct {
	ID           string       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID       string       `json:"user_id" gorm:"type:char(36);index;not null"`
	GameMode     string       `json:"game_mode" gorm:"size:50"`
	TotalScore   int          `json:"total_score"`
	RoundResults RoundResults `json:"round_results" gorm:"type:json"`
	IsWinner     bool         `json:"is_winner"`
	TeamMembers  TeamMembers  `json:"team_members" gorm:"type:json"`
	CreatedAt    time.Time    `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (s *GameSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
