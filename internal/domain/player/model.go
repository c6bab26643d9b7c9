package player

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidState marks a player whose fields contradict each other, such as
// a sold entry without a team. Partial edits that would merge into such a
// state carry it too.
var ErrInvalidState = errors.New("invalid player state")

// Role is the auction category a player is listed under.
type Role string

const (
	RoleWicketKeeper Role = "WK"
	RoleBatter       Role = "Batter"
	RoleBowler       Role = "Bowler"
	RoleAllRounder   Role = "AR"
)

var AllRoles = map[Role]struct{}{
	RoleWicketKeeper: {},
	RoleBatter:       {},
	RoleBowler:       {},
	RoleAllRounder:   {},
}

// Player is a single auction entry. Sold players belong to a team and carry
// the hammer price; unsold players carry neither. Amounts are in lakh
// (100 lakh = 1 Cr).
type Player struct {
	ID         int64
	Name       string
	Role       Role
	SoldAmount int64
	TeamID     *int64
	TeamName   string
	Notes      string
	Points     int
	IsUnsold   bool
	CreatedAt  time.Time
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllRoles[p.Role]; !ok {
		return fmt.Errorf("player role must be one of: WK, Batter, Bowler, AR")
	}
	if p.Points < 0 {
		return fmt.Errorf("player points must be >= 0")
	}
	if p.IsUnsold {
		if p.TeamID != nil {
			return fmt.Errorf("unsold player cannot belong to a team")
		}
		if p.SoldAmount != 0 {
			return fmt.Errorf("unsold player cannot carry a sold amount")
		}
		return nil
	}
	if p.TeamID == nil {
		return fmt.Errorf("sold player requires a team")
	}
	if p.SoldAmount <= 0 {
		return fmt.Errorf("sold amount must be > 0")
	}

	return nil
}

// Update is a partial field set; nil fields are left untouched.
// Flipping IsUnsold to true wins over TeamID/SoldAmount in the same update.
type Update struct {
	Name       *string
	Role       *Role
	SoldAmount *int64
	TeamID     *int64
	Notes      *string
	Points     *int
	IsUnsold   *bool
}

func (u Update) Empty() bool {
	return u.Name == nil && u.Role == nil && u.SoldAmount == nil &&
		u.TeamID == nil && u.Notes == nil && u.Points == nil && u.IsUnsold == nil
}

// Apply merges a partial edit into a copy of the player. Flipping to unsold
// releases team and amount in the same call; team or amount edits on an
// entry that stays unsold are rejected rather than dropped.
func (p Player) Apply(upd Update) (Player, error) {
	next := p
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Role != nil {
		next.Role = *upd.Role
	}
	if upd.Notes != nil {
		next.Notes = *upd.Notes
	}
	if upd.Points != nil {
		next.Points = *upd.Points
	}
	if upd.IsUnsold != nil {
		next.IsUnsold = *upd.IsUnsold
	}
	if upd.TeamID != nil {
		next.TeamID = upd.TeamID
	}
	if upd.SoldAmount != nil {
		next.SoldAmount = *upd.SoldAmount
	}

	if p.IsUnsold && next.IsUnsold && (upd.TeamID != nil || upd.SoldAmount != nil) {
		return Player{}, fmt.Errorf("%w: unsold player cannot take a team or sold amount", ErrInvalidState)
	}

	// The unsold flag wins over team/amount edits in the same call.
	if next.IsUnsold {
		next.TeamID = nil
		next.SoldAmount = 0
	}
	if err := next.Validate(); err != nil {
		return Player{}, fmt.Errorf("%w: %s", ErrInvalidState, err)
	}

	return next, nil
}

// Status narrows listings to one side of the sold flag.
type Status string

const (
	StatusAny    Status = ""
	StatusSold   Status = "sold"
	StatusUnsold Status = "unsold"
)

type Filter struct {
	TeamID *int64
	Role   *Role
	Status Status
	Name   string
}
