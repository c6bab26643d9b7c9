package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/domain/player"
)

// SearchResultLimit caps name-search responses; the picker UI shows a short
// list, not a page.
const SearchResultLimit = 10

// SearchMinQueryLen is the shortest query worth hitting the store for.
const SearchMinQueryLen = 2

type CreatePlayerInput struct {
	Name string
	Role player.Role
	// SoldAmount in lakh; required on the sold path.
	SoldAmount *int64
	TeamID     *int64
	Notes      string
	Points     int
	IsUnsold   bool
}

type PlayerService struct {
	playerRepo player.Repository
	publisher  AuctionEventPublisher
}

func NewPlayerService(playerRepo player.Repository, publisher AuctionEventPublisher) *PlayerService {
	return &PlayerService{playerRepo: playerRepo, publisher: publisher}
}

func (s *PlayerService) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	if filter.Role != nil {
		if _, ok := player.AllRoles[*filter.Role]; !ok {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, string(*filter.Role))
		}
	}
	switch filter.Status {
	case player.StatusAny, player.StatusSold, player.StatusUnsold:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, string(filter.Status))
	}
	filter.Name = strings.TrimSpace(filter.Name)

	items, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return items, nil
}

func (s *PlayerService) Get(ctx context.Context, id int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get")
	defer span.End()

	if id <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id must be > 0", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}

	return item, nil
}

// Create records an auction outcome. The sold path charges the buying team's
// purse atomically with the insert; the unsold path stores the entry with no
// team and no amount regardless of what else the caller sent.
func (s *PlayerService) Create(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	item := player.Player{
		Name:     strings.TrimSpace(input.Name),
		Role:     input.Role,
		Notes:    strings.TrimSpace(input.Notes),
		Points:   input.Points,
		IsUnsold: input.IsUnsold,
	}

	if input.IsUnsold {
		if err := item.Validate(); err != nil {
			return player.Player{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}

		created, err := s.playerRepo.CreateUnsold(ctx, item)
		if err != nil {
			return player.Player{}, fmt.Errorf("create unsold player: %w", err)
		}
		s.publish(ctx, EventPlayerUnsold, created)

		return created, nil
	}

	if input.TeamID == nil {
		return player.Player{}, fmt.Errorf("%w: sold player requires a team", ErrInvalidInput)
	}
	if input.SoldAmount == nil {
		return player.Player{}, fmt.Errorf("%w: sold player requires a sold amount", ErrInvalidInput)
	}
	item.TeamID = input.TeamID
	item.SoldAmount = *input.SoldAmount
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	created, err := s.playerRepo.CreateSold(ctx, item)
	if err != nil {
		if vErr := asValidationError(err); vErr != nil {
			return player.Player{}, vErr
		}
		return player.Player{}, fmt.Errorf("create sold player: %w", err)
	}
	s.publish(ctx, EventPlayerSold, created)

	return created, nil
}

// Update applies a partial edit. Raising a sold amount or moving a sold
// player re-runs the purse check against the target team, net of the player's
// own committed amount; flipping to unsold releases team and amount in the
// same write.
func (s *PlayerService) Update(ctx context.Context, id int64, upd player.Update) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	if id <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id must be > 0", ErrInvalidInput)
	}
	if upd.Empty() {
		return player.Player{}, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" {
			return player.Player{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
		}
		upd.Name = &trimmed
	}
	if upd.Role != nil {
		if _, ok := player.AllRoles[*upd.Role]; !ok {
			return player.Player{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, string(*upd.Role))
		}
	}
	if upd.Points != nil && *upd.Points < 0 {
		return player.Player{}, fmt.Errorf("%w: player points must be >= 0", ErrInvalidInput)
	}

	before, exists, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}

	item, exists, err := s.playerRepo.Update(ctx, id, upd)
	if err != nil {
		if vErr := asValidationError(err); vErr != nil {
			return player.Player{}, vErr
		}
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}

	switch {
	case before.IsUnsold && !item.IsUnsold:
		s.publish(ctx, EventPlayerSold, item)
	case !before.IsUnsold && item.IsUnsold:
		s.publish(ctx, EventPlayerUnsold, item)
	}

	return item, nil
}

func (s *PlayerService) Delete(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: player id must be > 0", ErrInvalidInput)
	}

	item, existed, err := s.playerRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if !existed {
		return fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}
	s.publish(ctx, EventPlayerDeleted, item)

	return nil
}

// Search returns up to SearchResultLimit players whose name contains the
// query. Queries shorter than SearchMinQueryLen never reach the store.
func (s *PlayerService) Search(ctx context.Context, query string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Search")
	defer span.End()

	query = strings.TrimSpace(query)
	if len([]rune(query)) < SearchMinQueryLen {
		return []player.Player{}, nil
	}

	items, err := s.playerRepo.SearchByName(ctx, query, SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}

	return items, nil
}

func (s *PlayerService) publish(ctx context.Context, kind AuctionEventKind, item player.Player) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, AuctionEvent{Kind: kind, Player: item})
}

// asValidationError keeps budget, unknown-team and merged-state rejections
// recognizable as validation failures without losing their details.
func asValidationError(err error) error {
	if errors.Is(err, auction.ErrInsufficientBudget) ||
		errors.Is(err, auction.ErrUnknownTeam) ||
		errors.Is(err, player.ErrInvalidState) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
