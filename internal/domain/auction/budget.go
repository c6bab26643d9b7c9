package auction

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/adimehta/auction-tracker/internal/domain/player"
)

var (
	ErrInsufficientBudget = errors.New("insufficient team budget")
	ErrUnknownTeam        = errors.New("unknown team")
	ErrTeamHasPlayers     = errors.New("team still owns players")
)

// BudgetError is a rejected purchase. Remaining is the purse that was still
// free when the bid was checked, so callers can surface it to the auctioneer.
type BudgetError struct {
	TeamID    int64
	Requested int64
	Remaining int64
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf(
		"insufficient budget: team %d has only %s Cr remaining, bid was %s Cr",
		e.TeamID, FormatCr(e.Remaining), FormatCr(e.Requested),
	)
}

func (e *BudgetError) Unwrap() error {
	return ErrInsufficientBudget
}

// Spent sums the committed amounts of a team's sold players. Unsold rows
// commit nothing by definition.
func Spent(players []player.Player) int64 {
	var total int64
	for _, p := range players {
		if p.IsUnsold {
			continue
		}
		total += p.SoldAmount
	}

	return total
}

func Remaining(maxPurse, spent int64) int64 {
	return maxPurse - spent
}

// CheckPurchase accepts a bid iff it fits the purse that is still free.
// The caller is responsible for computing spent and maxPurse inside the same
// transaction that will record the purchase.
func CheckPurchase(teamID, maxPurse, spent, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("sold amount must be > 0")
	}
	if remaining := Remaining(maxPurse, spent); amount > remaining {
		return &BudgetError{TeamID: teamID, Requested: amount, Remaining: remaining}
	}

	return nil
}

// LakhFromCr converts an API-facing crore figure to internal lakh,
// rounded to the nearest lakh.
func LakhFromCr(cr float64) int64 {
	return int64(math.Round(cr * 100))
}

// CrFromLakh converts internal lakh back to crore for responses.
func CrFromLakh(lakh int64) float64 {
	return float64(lakh) / 100
}

// FormatCr renders a lakh amount as crore text without a trailing zero
// fraction, e.g. 1250 -> "12.5", 4000 -> "40".
func FormatCr(lakh int64) string {
	s := strconv.FormatFloat(CrFromLakh(lakh), 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}

	return s
}
