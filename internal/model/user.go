package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered player.
type User struct {
	ID           string    `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Avatar       string    `json:"avatar" gorm:"size:500"`
	TotalPoints  int       `json:"total_points" gorm:"default:0"`
	GamesPlayed  int       `json:"games_played" gorm:"default:0"`
	GamesWon     int       `json:"games_won" gorm:"default:0"`
	CurrentRank  int       `json:"current_rank" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PublicUser is the user representation returned to clients.
type PublicUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	Points      int    `json:"points"`
	Rank        int    `json:"rank"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
}

// Public maps the stored row to its client representation. A rank that was
// never computed is reported as 999.
func (u *User) Public() PublicUser {
	rank := u.CurrentRank
	if rank == 0 {
		rank = 999
	}
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Avatar:      u.Avatar,
		Points:      u.TotalPoints,
		Rank:        rank,
		GamesPlayed: u.GamesPlayed,
		Wins:        u.GamesWon,
	}
}
