package webhook

import (
	"strings"
	"testing"
	"time"

	"github.com/adimehta/auction-tracker/internal/domain/player"
	"github.com/adimehta/auction-tracker/internal/usecase"
)

func TestBuildEventPayload(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	teamID := int64(2)

	t.Run("sold player carries team and amount in cr", func(t *testing.T) {
		got := buildEventPayload(usecase.AuctionEvent{
			Kind: usecase.EventPlayerSold,
			Player: player.Player{
				ID:         4,
				Name:       "Karan Mehra",
				Role:       player.RoleAllRounder,
				SoldAmount: 1825,
				TeamID:     &teamID,
				TeamName:   "Chennai Chargers",
			},
		}, now)

		if got.Event != "player.sold" {
			t.Fatalf("event = %q", got.Event)
		}
		if got.SoldCr == nil || *got.SoldCr != 18.25 {
			t.Fatalf("sold_amount_cr = %v, want 18.25", got.SoldCr)
		}
		if got.TeamID == nil || *got.TeamID != 2 {
			t.Fatalf("team_id = %v, want 2", got.TeamID)
		}
		if got.OccurredAt != "2026-03-14T18:30:00Z" {
			t.Fatalf("occurred_at = %q", got.OccurredAt)
		}
	})

	t.Run("unsold player omits team and amount", func(t *testing.T) {
		got := buildEventPayload(usecase.AuctionEvent{
			Kind: usecase.EventPlayerUnsold,
			Player: player.Player{
				ID:       7,
				Name:     "Nikhil Rao",
				Role:     player.RoleAllRounder,
				IsUnsold: true,
			},
		}, now)

		if got.SoldCr != nil {
			t.Fatalf("sold_amount_cr = %v, want nil", *got.SoldCr)
		}
		if got.TeamID != nil {
			t.Fatalf("team_id = %v, want nil", *got.TeamID)
		}
	})
}

func TestValidateWebhookURL(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "https", raw: "https://hooks.example.com/auction"},
		{name: "http", raw: "http://localhost:9090/events"},
		{name: "empty", raw: "   ", wantErr: true},
		{name: "bad scheme", raw: "ftp://example.com/hook", wantErr: true},
		{name: "missing host", raw: "https:///auction", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validateWebhookURL(tc.raw)
			if tc.wantErr && err == nil {
				t.Fatalf("validateWebhookURL(%q) succeeded, want error", tc.raw)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("validateWebhookURL(%q) failed: %v", tc.raw, err)
			}
		})
	}
}

func TestBuildRequestPreviewMasksSecret(t *testing.T) {
	preview := buildRequestPreview("https://hooks.example.com/auction", []byte(`{"event":"player.sold"}`), true)

	if !strings.Contains(preview, "X-Webhook-Secret: ***") {
		t.Fatalf("preview does not mask the secret header: %q", preview)
	}
	if !strings.Contains(preview, `{"event":"player.sold"}`) {
		t.Fatalf("preview lost the body: %q", preview)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for status, want := range map[int]bool{200: false, 400: false, 404: false, 429: true, 500: true, 503: true} {
		if got := isRetryableStatus(status); got != want {
			t.Fatalf("isRetryableStatus(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestPublishDisabledIsNoOp(t *testing.T) {
	n := NewNotifier(NotifierConfig{Enabled: false}, nil)

	// Must return without touching the network.
	n.Publish(t.Context(), usecase.AuctionEvent{Kind: usecase.EventPlayerDeleted})
}
