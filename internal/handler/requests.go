package handler

import (
	"encoding/json"

	"finalexam/internal/model"
)

// actionRequest is the envelope every client call arrives in.
type actionRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// registerRequest registers a new player.
type registerRequest struct {
	Email    string `json:"email" validate:"required,game_email,max=255"`
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Avatar   string `json:"avatar" validate:"omitempty,max=500"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type leaderboardRequest struct {
	Period string `json:"period" validate:"omitempty,oneof=all_time weekly daily"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type saveGameSessionRequest struct {
	GameMode     string              `json:"gameMode" validate:"omitempty,max=50"`
	TotalScore   int                 `json:"totalScore"`
	RoundResults []model.RoundResult `json:"roundResults"`
	IsWinner     bool                `json:"isWinner"`
	TeamMembers  []model.TeamMember  `json:"teamMembers"`
}

type joinChallengeRequest struct {
	ChallengeCode string `json:"challengeCode" validate:"required,challenge_code"`
}

type submitScoreRequest struct {
	ChallengeID  string              `json:"challengeId" validate:"required"`
	Score        int                 `json:"score"`
	RoundResults []model.RoundResult `json:"roundResults"`
	TeamMembers  []model.TeamMember  `json:"teamMembers"`
}

type getChallengeRequest struct {
	ChallengeID   string `json:"challengeId"`
	ChallengeCode string `json:"challengeCode"`
}

type historyRequest struct {
	Limit  int `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `json:"offset" validate:"omitempty,min=0"`
}

type updateProfileRequest struct {
	Avatar *string `json:"avatar"`
}

type redeemPrizeRequest struct {
	PrizeID    string `json:"prizeId" validate:"required,max=100"`
	PrizeName  string `json:"prizeName" validate:"omitempty,max=255"`
	PointsCost int    `json:"pointsCost" validate:"min=0"`
}

type practiceProgressRequest struct {
	Subject           string `json:"subject" validate:"required,max=100"`
	QuestionsAnswered int    `json:"questionsAnswered" validate:"min=0"`
	CorrectAnswers    int    `json:"correctAnswers" validate:"min=0"`
	TimeSpent         int    `json:"timeSpent" validate:"min=0"`
}

type saveTeamRequest struct {
	TeamName string             `json:"teamName" validate:"required,max=100"`
	Members  []model.TeamMember `json:"members"`
}

type updateTeamRequest struct {
	TeamID   string              `json:"teamId" validate:"required"`
	TeamName *string             `json:"teamName"`
	Members  *[]model.TeamMember `json:"members"`
}

type deleteTeamRequest struct {
	TeamID string `json:"teamId" validate:"required"`
}
