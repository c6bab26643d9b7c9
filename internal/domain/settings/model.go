package settings

// KeyMaxPurse is the only setting the auction uses today: the default purse
// applied to every team when the auctioneer resets budgets.
const KeyMaxPurse = "max_purse"

// Setting is a generic key/value configuration row.
type Setting struct {
	Key   string
	Value string
}
