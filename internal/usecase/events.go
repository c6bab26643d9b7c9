package usecase

import (
	"context"

	"github.com/adimehta/auction-tracker/internal/domain/player"
)

type AuctionEventKind string

const (
	EventPlayerSold    AuctionEventKind = "player.sold"
	EventPlayerUnsold  AuctionEventKind = "player.unsold"
	EventPlayerDeleted AuctionEventKind = "player.deleted"
)

// AuctionEvent is emitted after a player mutation commits.
type AuctionEvent struct {
	Kind   AuctionEventKind
	Player player.Player
}

// AuctionEventPublisher is a best-effort side channel; implementations must
// never fail the originating mutation.
type AuctionEventPublisher interface {
	Publish(ctx context.Context, event AuctionEvent)
}
