package usecase

import (
	"testing"

	"github.com/adimehta/auction-tracker/internal/infrastructure/repository/memory"
)

func TestAuditService_Run_CleanAuction(t *testing.T) {
	store := memory.NewSeededStore()
	service := NewAuditService(store.Teams(), store.Players(), 4)

	result, err := service.Run(t.Context(), AuditInput{})
	if err != nil {
		t.Fatalf("run audit: %v", err)
	}
	if result.TeamCount != 4 {
		t.Fatalf("unexpected team count: %d", result.TeamCount)
	}
	if result.OverspentCount != 0 {
		t.Fatalf("expected no overspent teams, got %d", result.OverspentCount)
	}
	if len(result.Teams) != 4 {
		t.Fatalf("unexpected row count: %d", len(result.Teams))
	}
	for i := 1; i < len(result.Teams); i++ {
		if result.Teams[i].TeamID <= result.Teams[i-1].TeamID {
			t.Fatalf("rows not id-ascending at %d", i)
		}
	}
}

func TestAuditService_Run_FlagsOverspentAfterPurseReset(t *testing.T) {
	store := memory.NewSeededStore()
	settingsSvc := NewSettingsService(store.Settings())
	service := NewAuditService(store.Teams(), store.Players(), 2)

	// A 1500 lakh cap puts teams 1 (2450) and 2 (3025) under water.
	if _, err := settingsSvc.UpdateMaxPurse(t.Context(), 1500); err != nil {
		t.Fatalf("update max purse: %v", err)
	}

	result, err := service.Run(t.Context(), AuditInput{MaxWorkers: 3})
	if err != nil {
		t.Fatalf("run audit: %v", err)
	}
	if result.OverspentCount != 2 {
		t.Fatalf("unexpected overspent count: %d", result.OverspentCount)
	}

	byID := make(map[int64]AuditTeamRow, len(result.Teams))
	for _, row := range result.Teams {
		byID[row.TeamID] = row
	}
	if !byID[1].Overspent || byID[1].Remaining != 1500-2450 {
		t.Fatalf("unexpected team 1 row: %+v", byID[1])
	}
	if !byID[2].Overspent || byID[2].Remaining != 1500-3025 {
		t.Fatalf("unexpected team 2 row: %+v", byID[2])
	}
	if byID[3].Overspent || byID[4].Overspent {
		t.Fatalf("teams 3 and 4 should be clean")
	}
}
