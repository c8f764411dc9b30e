package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTeamsPerUser caps how many teams a player can keep saved.
const MaxTeamsPerUser = 5

// Team is a saved flashcard team reusable across sessions.
type Team struct {
	ID        string      `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerID   string      `json:"owner_id" gorm:"type:char(36);index;not null"`
	TeamName  string      `json:"team_name" gorm:"size:100;not null"`
	Members   TeamMembers `json:"members" gorm:"type:json"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
