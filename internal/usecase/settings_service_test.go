package usecase

import (
	"errors"
	"testing"

	"github.com/adimehta/auction-tracker/internal/infrastructure/repository/memory"
)

func TestSettingsService_UpdateMaxPurse_PropagatesToAllTeams(t *testing.T) {
	store := memory.NewSeededStore()
	service := NewSettingsService(store.Settings())

	affected, err := service.UpdateMaxPurse(t.Context(), 12000)
	if err != nil {
		t.Fatalf("update max purse: %v", err)
	}
	if affected != 4 {
		t.Fatalf("unexpected affected count: %d", affected)
	}

	teams, err := store.Teams().List(t.Context())
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	for _, item := range teams {
		if item.MaxPurse != 12000 {
			t.Fatalf("team %d purse not propagated: %d", item.ID, item.MaxPurse)
		}
	}

	values, err := service.List(t.Context())
	if err != nil {
		t.Fatalf("list settings: %v", err)
	}
	if values["max_purse"] != "12000" {
		t.Fatalf("unexpected stored default: %q", values["max_purse"])
	}
}

func TestSettingsService_UpdateMaxPurse_CanLeaveNegativeRemaining(t *testing.T) {
	store := memory.NewSeededStore()
	service := NewSettingsService(store.Settings())

	// Team 2 has 3025 lakh committed; a 1000 lakh cap is accepted anyway.
	if _, err := service.UpdateMaxPurse(t.Context(), 1000); err != nil {
		t.Fatalf("update max purse: %v", err)
	}

	overview, _, err := store.Teams().GetByID(t.Context(), 2)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if overview.RemainingPurse != 1000-3025 {
		t.Fatalf("unexpected remaining purse: %d", overview.RemainingPurse)
	}
}

func TestSettingsService_UpdateMaxPurse_Validation(t *testing.T) {
	store := memory.NewSeededStore()
	service := NewSettingsService(store.Settings())

	if _, err := service.UpdateMaxPurse(t.Context(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero purse")
	}
	if _, err := service.UpdateMaxPurse(t.Context(), -5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative purse")
	}
}
