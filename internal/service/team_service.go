package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "finalexam/internal/errors"
	"finalexam/internal/model"
	"finalexam/internal/repository"
	"finalexam/internal/validate"
)

// TeamService manages saved teams. All operations are scoped to the
// authenticated owner.
type TeamService interface {
	Save(ctx context.Context, ownerID, teamName string, members []model.TeamMember) (*model.Team, error)
	List(ctx context.Context, ownerID string) ([]model.Team, error)
	Update(ctx context.Context, ownerID, teamID string, teamName *string, members []model.TeamMember) (*model.Team, error)
	Delete(ctx context.Context, ownerID, teamID string) error
}

type teamService struct {
	teams repository.TeamRepository
}

// NewTeamService creates a new team service.
func NewTeamService(teams repository.TeamRepository) TeamService {
	return &teamService{teams: teams}
}

// Save stores a new team, capped at MaxTeamsPerUser per owner.
func (s *teamService) Save(ctx context.Context, ownerID, teamName string, members []model.TeamMember) (*model.Team, error) {
	teamName, err := validate.String(teamName, "teamName", validate.MaxTeamNameLength)
	if err != nil {
		return nil, err
	}
	validMembers, err := validate.TeamMembers(members)
	if err != nil {
		return nil, err
	}

	count, err := s.teams.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count teams: %w", err)
	}
	if count >= model.MaxTeamsPerUser {
		return nil, apperrors.ErrTeamLimit
	}

	team := &model.Team{
		OwnerID:  ownerID,
		TeamName: teamName,
		Members:  validMembers,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	return team, nil
}

// List returns the owner's teams, newest first.
func (s *teamService) List(ctx context.Context, ownerID string) ([]model.Team, error) {
	teams, err := s.teams.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// Update changes the name and/or members of an owned team. A team owned by
// someone else reads as not found.
func (s *teamService) Update(ctx context.Context, ownerID, teamID string, teamName *string, members []model.TeamMember) (*model.Team, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}

	if teamName != nil {
		name, err := validate.String(*teamName, "teamName", validate.MaxTeamNameLength)
		if err != nil {
			return nil, err
		}
		updates["team_name"] = name
	}
	if members != nil {
		validMembers, err := validate.TeamMembers(members)
		if err != nil {
			return nil, err
		}
		updates["members"] = validMembers
	}

	if err := s.teams.Update(ctx, teamID, ownerID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("update team: %w", err)
	}

	team, err := s.teams.FindByIDAndOwner(ctx, teamID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("reload team: %w", err)
	}
	return team, nil
}

// Delete removes an owned team.
func (s *teamService) Delete(ctx context.Context, ownerID, teamID string) error {
	if err := s.teams.Delete(ctx, teamID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTeamNotFound
		}
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}
