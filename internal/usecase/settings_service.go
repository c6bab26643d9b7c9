package usecase

import (
	"context"
	"fmt"

	"github.com/adimehta/auction-tracker/internal/domain/settings"
)

type SettingsService struct {
	settingsRepo settings.Repository
}

func NewSettingsService(settingsRepo settings.Repository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

func (s *SettingsService) List(ctx context.Context) (map[string]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.List")
	defer span.End()

	items, err := s.settingsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	out := make(map[string]string, len(items))
	for _, item := range items {
		out[item.Key] = item.Value
	}

	return out, nil
}

// UpdateMaxPurse stores the new default purse and pushes it onto every team
// in one transaction. It returns the number of teams affected. Teams whose
// spend already exceeds the new cap end up with a negative remaining purse;
// the audit endpoint exists to find them.
func (s *SettingsService) UpdateMaxPurse(ctx context.Context, maxPurse int64) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.UpdateMaxPurse")
	defer span.End()

	if maxPurse <= 0 {
		return 0, fmt.Errorf("%w: max purse must be > 0", ErrInvalidInput)
	}

	affected, err := s.settingsRepo.PropagateMaxPurse(ctx, maxPurse)
	if err != nil {
		return 0, fmt.Errorf("propagate max purse: %w", err)
	}

	return affected, nil
}
