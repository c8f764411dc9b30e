package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"gorm.io/gorm"

	apperrors "finalexam/internal/errors"
	"finalexam/internal/model"
	"finalexam/internal/repository"
	"finalexam/internal/validate"
)

const codeCreateAttempts = 5

// ChallengeService drives the asynchronous head-to-head state machine:
// pending (created) -> active (challenger submitted) -> completed (opponent
// submitted).
type ChallengeService interface {
	Create(ctx context.Context, challengerID string) (*model.Challenge, error)
	Join(ctx context.Context, code, userID string) (*model.Challenge, error)
	SubmitChallengerScore(ctx context.Context, challengeID, userID string, score int, results []model.RoundResult, members []model.TeamMember) (*model.Challenge, error)
	SubmitOpponentScore(ctx context.Context, challengeID, userID string, score int, results []model.RoundResult, members []model.TeamMember) (*model.Challenge, error)
	List(ctx context.Context, userID string) ([]model.Challenge, error)
	Get(ctx context.Context, challengeID, challengeCode string) (*model.Challenge, error)
}

type challengeService struct {
	challenges repository.ChallengeRepository
	users      repository.UserRepository
}

// NewChallengeService creates a new challenge service.
func NewChallengeService(challenges repository.ChallengeRepository, users repository.UserRepository) ChallengeService {
	return &challengeService{
		challenges: challenges,
		users:      users,
	}
}

// Create opens a pending challenge with a fresh shareable code and a random
// question seed both players will replay. Code collisions are resolved by
// retrying against the unique index.
func (s *challengeService) Create(ctx context.Context, challengerID string) (*model.Challenge, error) {
	seed, err := randomSeed()
	if err != nil {
		return nil, fmt.Errorf("generate seed: %w", err)
	}

	for attempt := 0; attempt < codeCreateAttempts; attempt++ {
		code, err := generateChallengeCode()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		challenge := &model.Challenge{
			ChallengeCode: code,
			ChallengerID:  challengerID,
			QuestionSeed:  seed,
			Status:        model.ChallengeStatusPending,
		}
		err = s.challenges.Create(ctx, challenge)
		if err == nil {
			return challenge, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create challenge: %w", err)
		}
	}
	return nil, fmt.Errorf("create challenge: code space exhausted after %d attempts", codeCreateAttempts)
}

// Join claims the opponent slot for userID. Rejoining with the same user is
// idempotent; a challenger cannot join their own challenge; a completed
// challenge or one with a different opponent rejects the join.
func (s *challengeService) Join(ctx context.Context, code, userID string) (*model.Challenge, error) {
	code, err := validate.ChallengeCode(code)
	if err != nil {
		return nil, err
	}

	challenge, err := s.challenges.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("find challenge: %w", err)
	}

	if challenge.Status == model.ChallengeStatusCompleted {
		return nil, apperrors.ErrChallengeCompleted
	}
	if challenge.ChallengerID == userID {
		return nil, apperrors.ErrSelfChallenge
	}
	if challenge.OpponentID != nil && *challenge.OpponentID != userID {
		return nil, apperrors.ErrChallengeTaken
	}

	if challenge.OpponentID == nil {
		if err := s.challenges.SetOpponent(ctx, challenge.ID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Lost the race to another joiner.
				return nil, apperrors.ErrChallengeTaken
			}
			return nil, fmt.Errorf("set opponent: %w", err)
		}
		challenge.OpponentID = &userID
	}

	return s.annotate(ctx, challenge)
}

// SubmitChallengerScore records the challenger's result and moves the
// challenge to active. The update predicate is scoped to challenger_id, so a
// non-challenger's submission matches no rows and reads as not found.
func (s *challengeService) SubmitChallengerScore(ctx context.Context, challengeID, userID string, score int, results []model.RoundResult, members []model.TeamMember) (*model.Challenge, error) {
	validResults, validMembers, err := validateSubmission(results, members)
	if err != nil {
		return nil, err
	}

	err = s.challenges.RecordChallengerResult(ctx, challengeID, userID, score, validResults, validMembers)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("record challenger result: %w", err)
	}
	return s.reload(ctx, challengeID)
}

// SubmitOpponentScore records the opponent's result and completes the
// challenge, scoped to opponent_id the same way.
func (s *challengeService) SubmitOpponentScore(ctx context.Context, challengeID, userID string, score int, results []model.RoundResult, members []model.TeamMember) (*model.Challenge, error) {
	validResults, validMembers, err := validateSubmission(results, members)
	if err != nil {
		return nil, err
	}

	err = s.challenges.RecordOpponentResult(ctx, challengeID, userID, score, validResults, validMembers)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("record opponent result: %w", err)
	}
	return s.reload(ctx, challengeID)
}

// List returns every challenge the user participates in, newest first, with
// both display names filled in.
func (s *challengeService) List(ctx context.Context, userID string) ([]model.Challenge, error) {
	challenges, err := s.challenges.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	ids := make([]string, 0, len(challenges)*2)
	for _, c := range challenges {
		ids = append(ids, c.ChallengerID)
		if c.OpponentID != nil {
			ids = append(ids, *c.OpponentID)
		}
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	for i := range challenges {
		fillUsernames(&challenges[i], users)
	}
	return challenges, nil
}

// Get fetches a challenge by id or, failing that, by code.
func (s *challengeService) Get(ctx context.Context, challengeID, challengeCode string) (*model.Challenge, error) {
	var (
		challenge *model.Challenge
		err       error
	)
	switch {
	case challengeID != "":
		challenge, err = s.challenges.FindByID(ctx, challengeID)
	case challengeCode != "":
		code, codeErr := validate.ChallengeCode(challengeCode)
		if codeErr != nil {
			return nil, codeErr
		}
		challenge, err = s.challenges.FindByCode(ctx, code)
	default:
		return nil, apperrors.NewValidation("challengeId or challengeCode required")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("find challenge: %w", err)
	}
	return s.annotate(ctx, challenge)
}

func (s *challengeService) reload(ctx context.Context, challengeID string) (*model.Challenge, error) {
	challenge, err := s.challenges.FindByID(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("reload challenge: %w", err)
	}
	return s.annotate(ctx, challenge)
}

func (s *challengeService) annotate(ctx context.Context, challenge *model.Challenge) (*model.Challenge, error) {
	ids := []string{challenge.ChallengerID}
	if challenge.OpponentID != nil {
		ids = append(ids, *challenge.OpponentID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	fillUsernames(challenge, users)
	return challenge, nil
}

func fillUsernames(challenge *model.Challenge, users map[string]model.User) {
	if u, ok := users[challenge.ChallengerID]; ok {
		challenge.ChallengerUsername = u.Username
	} else {
		challenge.ChallengerUsername = "Unknown"
	}
	if challenge.OpponentID != nil {
		if u, ok := users[*challenge.OpponentID]; ok {
			name := u.Username
			challenge.OpponentUsername = &name
		}
	}
}

func validateSubmission(results []model.RoundResult, members []model.TeamMember) (model.RoundResults, model.TeamMembers, error) {
	validResults, err := validate.RoundResults(results)
	if err != nil {
		return nil, nil, err
	}
	validMembers, err := validate.TeamMembers(members)
	if err != nil {
		return nil, nil, err
	}
	return validResults, validMembers, nil
}

// generateChallengeCode draws 6 characters from the unambiguous alphabet.
func generateChallengeCode() (string, error) {
	alphabet := validate.ChallengeCodeAlphabet
	code := make([]byte, validate.ChallengeCodeLen)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}

// randomSeed returns a non-negative 31-bit seed, matching what clients use to
// shuffle questions deterministically.
func randomSeed() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<31-1))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}
