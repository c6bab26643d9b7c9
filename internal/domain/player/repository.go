package player

import "context"

// Repository describes player persistence needs from use cases.
//
// CreateSold and Update are the budget-bearing paths: implementations must
// run the purse check and the row mutation in one atomic unit with the team
// row locked, and surface auction.BudgetError / auction.ErrUnknownTeam when
// the purchase cannot be honored.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Player, error)
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	SearchByName(ctx context.Context, query string, limit int) ([]Player, error)
	CreateSold(ctx context.Context, p Player) (Player, error)
	CreateUnsold(ctx context.Context, p Player) (Player, error)
	Update(ctx context.Context, id int64, upd Update) (Player, bool, error)
	Delete(ctx context.Context, id int64) (Player, bool, error)
}
