package auction

import (
	"context"

	"github.com/adimehta/auction-tracker/internal/domain/player"
)

// TopBidLimit is how many of the most expensive purchases the dashboard shows.
const TopBidLimit = 5

// Overview aggregates the whole auction across sold players. All-zero when
// nothing has been sold.
type Overview struct {
	TotalPlayers int64
	TotalSpent   int64
	AvgPrice     float64
	HighestBid   int64
	LowestBid    int64
}

// RoleStat is one role's slice of the spend. Roles without sold players are
// omitted from results, not zero-filled.
type RoleStat struct {
	Role        player.Role
	Count       int64
	TotalSpent  int64
	AvgPrice    float64
	TotalPoints int64
}

type TopBid struct {
	PlayerID   int64
	PlayerName string
	Role       player.Role
	SoldAmount int64
	TeamName   string
}

type TeamSpending struct {
	TeamID      int64
	TeamName    string
	MaxPurse    int64
	Spent       int64
	Remaining   int64
	PlayerCount int64
}

// Report is the composite dashboard payload.
type Report struct {
	Overview     Overview
	ByRole       []RoleStat
	TopBids      []TopBid
	TeamSpending []TeamSpending
}

// Repository reads derived reporting views. Implementations re-scan the
// affected rows on every call; no view result is cached.
type Repository interface {
	Overview(ctx context.Context) (Overview, error)
	RoleStats(ctx context.Context, teamID *int64) ([]RoleStat, error)
	TopBids(ctx context.Context, limit int) ([]TopBid, error)
	TeamSpending(ctx context.Context) ([]TeamSpending, error)
}
