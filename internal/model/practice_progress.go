package model

import "time"

// PracticeProgress records one flashcard practice session for a subject.
type PracticeProgress struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            string    `json:"user_id" gorm:"type:char(36);index;not null"`
	Subject           string    `json:"subject" gorm:"size:100"`
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	TimeSpent         int       `json:"time_spent"` // seconds
	CreatedAt         time.Time `json:"created_at"`
}

// SubjectStats aggregates practice progress per subject.
type SubjectStats struct {
	TotalQuestions int `json:"totalQuestions"`
	TotalCorrect   int `json:"totalCorrect"`
	TotalTime      int `json:"totalTime"`
	Sessions       int `json:"sessions"`
}
