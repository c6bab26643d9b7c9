package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/player"
	"github.com/adimehta/auction-tracker/internal/domain/team"
)

type CreateTeamInput struct {
	Name string
	// MaxPurse in lakh; nil picks the default purse.
	MaxPurse *int64
}

type TeamService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
}

func NewTeamService(teamRepo team.Repository, playerRepo player.Repository) *TeamService {
	return &TeamService{teamRepo: teamRepo, playerRepo: playerRepo}
}

func (s *TeamService) List(ctx context.Context) ([]team.Overview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return items, nil
}

func (s *TeamService) Get(ctx context.Context, id int64) (team.Overview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get")
	defer span.End()

	if id <= 0 {
		return team.Overview{}, fmt.Errorf("%w: team id must be > 0", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return team.Overview{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return team.Overview{}, fmt.Errorf("%w: team=%d", ErrNotFound, id)
	}

	return item, nil
}

func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	item := team.Team{
		Name:     strings.TrimSpace(input.Name),
		MaxPurse: team.DefaultMaxPurse,
	}
	if input.MaxPurse != nil {
		item.MaxPurse = *input.MaxPurse
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	created, err := s.teamRepo.Create(ctx, item)
	if err != nil {
		if errors.Is(err, team.ErrNameTaken) {
			return team.Team{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	return created, nil
}

func (s *TeamService) Update(ctx context.Context, id int64, upd team.Update) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	if id <= 0 {
		return team.Team{}, fmt.Errorf("%w: team id must be > 0", ErrInvalidInput)
	}
	if upd.Empty() {
		return team.Team{}, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
		}
		upd.Name = &trimmed
	}
	if upd.MaxPurse != nil && *upd.MaxPurse <= 0 {
		return team.Team{}, fmt.Errorf("%w: team max purse must be > 0", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, team.ErrNameTaken) {
			return team.Team{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%d", ErrNotFound, id)
	}

	return item, nil
}

// Delete refuses to drop a team that still owns players, sold or unsold.
// Releasing the roster first is the auctioneer's job.
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: team id must be > 0", ErrInvalidInput)
	}

	existed, err := s.teamRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, auction.ErrTeamHasPlayers) {
			return fmt.Errorf("%w: team=%d still owns players", ErrInvalidInput, id)
		}
		return fmt.Errorf("delete team: %w", err)
	}
	if !existed {
		return fmt.Errorf("%w: team=%d", ErrNotFound, id)
	}

	return nil
}

func (s *TeamService) ListPlayers(ctx context.Context, id int64) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListPlayers")
	defer span.End()

	if id <= 0 {
		return nil, fmt.Errorf("%w: team id must be > 0", ErrInvalidInput)
	}

	_, exists, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%d", ErrNotFound, id)
	}

	items, err := s.playerRepo.List(ctx, player.Filter{TeamID: &id})
	if err != nil {
		return nil, fmt.Errorf("list team players: %w", err)
	}

	return items, nil
}
