package model

import "time"

// Leaderboard periods.
const (
	PeriodAllTime = "all_time"
	PeriodWeekly  = "weekly"
	PeriodDaily   = "daily"
)

// LeaderboardEntry is one scored result eligible for the public leaderboard.
type LeaderboardEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);index;not null"`
	Score     int       `json:"score" gorm:"index:idx_leaderboard_score,sort:desc"`
	Period    string    `json:"period" gorm:"size:16;default:'all_time'"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

// LeaderboardRow is one ranked row of the public leaderboard response.
type LeaderboardRow struct {
	Rank  int        `json:"rank"`
	User  PublicUser `json:"user"`
	Score int        `json:"score"`
	Date  time.Time  `json:"date"`
}
