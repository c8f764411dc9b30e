package model

import "time"

// PrizeRedemption records points spent on a reward.
type PrizeRedemption struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"type:char(36);index;not null"`
	PrizeID    string    `json:"prize_id" gorm:"size:100"`
	PrizeName  string    `json:"prize_name" gorm:"size:255"`
	PointsCost int       `json:"points_cost"`
	CreatedAt  time.Time `json:"created_at"`
}
