package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Overview, error)
	GetByID(ctx context.Context, id int64) (Overview, bool, error)
	Create(ctx context.Context, t Team) (Team, error)
	Update(ctx context.Context, id int64, upd Update) (Team, bool, error)
	// Delete reports (false, nil) for an unknown id and wraps
	// auction.ErrTeamHasPlayers while the team still owns players.
	Delete(ctx context.Context, id int64) (bool, error)
}
