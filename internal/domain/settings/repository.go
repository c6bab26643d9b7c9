package settings

import "context"

// Repository describes settings persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Setting, error)
	// PropagateMaxPurse persists maxPurse (lakh) as the stored default AND
	// overwrites max_purse on every team, in one transaction. It returns the
	// number of teams affected. Teams whose spend already exceeds the new cap
	// are left with a negative remaining purse on purpose.
	PropagateMaxPurse(ctx context.Context, maxPurse int64) (int64, error)
}
