package team

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultMaxPurse is the purse assigned to a new team when the caller does
// not supply one: 100 Cr, in lakh.
const DefaultMaxPurse int64 = 10000

// ErrNameTaken mirrors the unique constraint on the team name column.
var ErrNameTaken = errors.New("team name already taken")

// Team is a franchise bidding in the auction. MaxPurse is in lakh.
type Team struct {
	ID        int64
	Name      string
	MaxPurse  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if t.MaxPurse <= 0 {
		return fmt.Errorf("team max purse must be > 0")
	}

	return nil
}

// Overview couples a team with its derived auction numbers. All four derived
// fields count only sold players; they are recomputed on read, never stored.
type Overview struct {
	Team
	Spent          int64
	RemainingPurse int64
	PlayerCount    int64
	TotalPoints    int64
}

// Update is a partial field set; nil fields are left untouched.
type Update struct {
	Name     *string
	MaxPurse *int64
}

func (u Update) Empty() bool {
	return u.Name == nil && u.MaxPurse == nil
}
