package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"finalexam/internal/cache"
	apperrors "finalexam/internal/errors"
	"finalexam/internal/model"
	"finalexam/internal/repository"
	"finalexam/internal/validate"
)

const (
	leaderboardCacheTTL  = 30 * time.Second
	defaultHistoryLimit  = 20
	maxLeaderboardLimit  = 100
	defaultLeaderboardN  = 100
	recentSessionsInStat = 10
)

// SaveSessionInput is a completed play-through to record.
type SaveSessionInput struct {
	GameMode     string
	TotalScore   int
	RoundResults []model.RoundResult
	IsWinner     bool
	TeamMembers  []model.TeamMember
}

// UserStats bundles the profile with recent performance.
type UserStats struct {
	User        model.PublicUser    `json:"user"`
	BestScore   int                 `json:"bestScore"`
	RecentGames []model.GameSession `json:"recentGames"`
}

// PracticeStats bundles raw progress rows with per-subject aggregates.
type PracticeStats struct {
	Progress     []model.PracticeProgress      `json:"progress"`
	SubjectStats map[string]model.SubjectStats `json:"subjectStats"`
}

// GameService handles sessions, the leaderboard, prizes and practice.
type GameService interface {
	SaveSession(ctx context.Context, userID string, in SaveSessionInput) (int, *model.User, error)
	Leaderboard(ctx context.Context, period string, limit int) ([]model.LeaderboardRow, error)
	Stats(ctx context.Context, userID string) (*UserStats, error)
	History(ctx context.Context, userID string, limit, offset int) ([]model.GameSession, error)
	RedeemPrize(ctx context.Context, userID, prizeID, prizeName string, pointsCost int) (*model.User, error)
	SavePracticeProgress(ctx context.Context, userID string, progress *model.PracticeProgress) error
	PracticeStats(ctx context.Context, userID string) (*PracticeStats, error)
	UpdateAvatar(ctx context.Context, userID string, avatar *string) (*model.User, error)
}

type gameService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	prizes   repository.PrizeRepository
	practice repository.PracticeRepository
	cache    *cache.Client
}

// NewGameService creates a new game service.
func NewGameService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	prizes repository.PrizeRepository,
	practice repository.PracticeRepository,
	cacheClient *cache.Client,
) GameService {
	return &gameService{
		users:    users,
		sessions: sessions,
		prizes:   prizes,
		practice: practice,
		cache:    cacheClient,
	}
}

// SaveSession records the session, adds an all-time leaderboard entry and
// bumps the user's stats. Returns the points earned and the updated user row.
func (s *gameService) SaveSession(ctx context.Context, userID string, in SaveSessionInput) (int, *model.User, error) {
	results, err := validate.RoundResults(in.RoundResults)
	if err != nil {
		return 0, nil, err
	}
	members, err := validate.TeamMembers(in.TeamMembers)
	if err != nil {
		return 0, nil, err
	}

	session := &model.GameSession{
		UserID:       userID,
		GameMode:     in.GameMode,
		TotalScore:   in.TotalScore,
		RoundResults: results,
		IsWinner:     in.IsWinner,
		TeamMembers:  members,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return 0, nil, fmt.Errorf("create session: %w", err)
	}

	entry := &model.LeaderboardEntry{
		UserID: userID,
		Score:  in.TotalScore,
		Period: model.PeriodAllTime,
	}
	if err := s.sessions.CreateLeaderboardEntry(ctx, entry); err != nil {
		return 0, nil, fmt.Errorf("create leaderboard entry: %w", err)
	}

	if err := s.users.RecordGameResult(ctx, userID, in.TotalScore, in.IsWinner); err != nil {
		return 0, nil, fmt.Errorf("update user stats: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("reload user: %w", err)
	}
	return in.TotalScore, user, nil
}

func (s *gameService) leaderboardCacheKey(period string, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d", period, limit)
}

// Leaderboard returns the top entries for the period, briefly cached so the
// public endpoint cannot hammer the store.
func (s *gameService) Leaderboard(ctx context.Context, period string, limit int) ([]model.LeaderboardRow, error) {
	if period == "" {
		period = model.PeriodAllTime
	}
	if limit <= 0 || limit > maxLeaderboardLimit {
		limit = defaultLeaderboardN
	}

	key := s.leaderboardCacheKey(period, limit)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.LeaderboardRow
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	var since *time.Time
	switch period {
	case model.PeriodWeekly:
		t := time.Now().Add(-7 * 24 * time.Hour)
		since = &t
	case model.PeriodDaily:
		t := time.Now().Add(-24 * time.Hour)
		since = &t
	}

	entries, err := s.sessions.TopEntries(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	rows := make([]model.LeaderboardRow, 0, len(entries))
	for i, e := range entries {
		public := e.User.Public()
		public.Rank = i + 1
		rows = append(rows, model.LeaderboardRow{
			Rank:  i + 1,
			User:  public,
			Score: e.Score,
			Date:  e.CreatedAt,
		})
	}

	if payload, err := json.Marshal(rows); err == nil {
		_ = s.cache.Set(ctx, key, payload, leaderboardCacheTTL)
	}
	return rows, nil
}

// Stats returns the user's profile, best score and recent sessions.
func (s *gameService) Stats(ctx context.Context, userID string) (*UserStats, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	sessions, err := s.sessions.ListByUser(ctx, userID, recentSessionsInStat, 0)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	best := 0
	for _, sess := range sessions {
		if sess.TotalScore > best {
			best = sess.TotalScore
		}
	}

	return &UserStats{
		User:        user.Public(),
		BestScore:   best,
		RecentGames: sessions,
	}, nil
}

// History pages through the user's sessions, newest first.
func (s *gameService) History(ctx context.Context, userID string, limit, offset int) ([]model.GameSession, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	sessions, err := s.sessions.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return sessions, nil
}

// RedeemPrize spends points on a reward. The deduction predicate requires a
// sufficient balance, so two concurrent redemptions cannot overspend.
func (s *gameService) RedeemPrize(ctx context.Context, userID, prizeID, prizeName string, pointsCost int) (*model.User, error) {
	if pointsCost < 0 {
		return nil, apperrors.NewValidation("pointsCost must not be negative")
	}

	if err := s.users.SpendPoints(ctx, userID, pointsCost); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotEnoughPoints
		}
		return nil, fmt.Errorf("spend points: %w", err)
	}

	redemption := &model.PrizeRedemption{
		UserID:     userID,
		PrizeID:    validate.Truncate(prizeID, 100),
		PrizeName:  validate.Truncate(prizeName, 255),
		PointsCost: pointsCost,
	}
	if err := s.prizes.Create(ctx, redemption); err != nil {
		return nil, fmt.Errorf("record redemption: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return user, nil
}

// SavePracticeProgress records one practice session.
func (s *gameService) SavePracticeProgress(ctx context.Context, userID string, progress *model.PracticeProgress) error {
	progress.UserID = userID
	progress.Subject = validate.Truncate(progress.Subject, 100)
	if err := s.practice.Create(ctx, progress); err != nil {
		return fmt.Errorf("save practice progress: %w", err)
	}
	return nil
}

// PracticeStats aggregates the user's practice history per subject.
func (s *gameService) PracticeStats(ctx context.Context, userID string) (*PracticeStats, error) {
	records, err := s.practice.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load practice progress: %w", err)
	}

	stats := make(map[string]model.SubjectStats)
	for _, rec := range records {
		s := stats[rec.Subject]
		s.TotalQuestions += rec.QuestionsAnswered
		s.TotalCorrect += rec.CorrectAnswers
		s.TotalTime += rec.TimeSpent
		s.Sessions++
		stats[rec.Subject] = s
	}

	return &PracticeStats{Progress: records, SubjectStats: stats}, nil
}

// UpdateAvatar replaces the profile avatar, truncated to its storage bound.
// A nil avatar means the field was absent from the request and leaves the
// stored value untouched.
func (s *gameService) UpdateAvatar(ctx context.Context, userID string, avatar *string) (*model.User, error) {
	if avatar != nil {
		trimmed := validate.Truncate(*avatar, validate.MaxAvatarLength)
		if err := s.users.UpdateAvatar(ctx, userID, trimmed); err != nil {
			return nil, fmt.Errorf("update avatar: %w", err)
		}
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return user, nil
}
