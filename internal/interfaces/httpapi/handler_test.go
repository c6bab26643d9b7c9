package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/adimehta/auction-tracker/internal/infrastructure/repository/memory"
	"github.com/adimehta/auction-tracker/internal/platform/logging"
	"github.com/adimehta/auction-tracker/internal/usecase"
)

const testInternalToken = "test-internal-token"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewSeededStore()
	handler := NewHandler(
		usecase.NewTeamService(store.Teams(), store.Players()),
		usecase.NewPlayerService(store.Players(), nil),
		usecase.NewStatsService(store.Reports(), store.Teams()),
		usecase.NewSettingsService(store.Settings()),
		usecase.NewAuditService(store.Teams(), store.Players(), 4),
		logging.NewNop(),
	)

	return NewRouter(handler, logging.NewNop(), []string{"*"}, testInternalToken)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response for %s %s: %v\nbody: %s", method, path, err, rec.Body.String())
		}
	}

	return rec, envelope
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", envelope)
	}
}

func TestListTeams_DerivedNumbers(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/teams", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	items, _ := envelope["data"].([]any)
	if len(items) != 4 {
		t.Fatalf("expected 4 teams, got %d", len(items))
	}
	first, _ := items[0].(map[string]any)
	if first["name"] != "Mumbai Mavericks" {
		t.Fatalf("unexpected first team: %v", first)
	}
	if got := first["spentCr"].(float64); got != 24.5 {
		t.Fatalf("spentCr = %v, want 24.5", got)
	}
	if got := first["remainingPurseCr"].(float64); got != 75.5 {
		t.Fatalf("remainingPurseCr = %v, want 75.5", got)
	}
}

func TestCreatePlayer_SoldOverBudgetReturnsRemaining(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name":"Big Bid","role":"Batter","soldAmountCr":90,"teamId":1}`
	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/players", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	errorObj, _ := envelope["error"].(map[string]any)
	if errorObj["status"] != "INVALID_ARGUMENT" {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", errorObj["status"])
	}
	items, _ := errorObj["errors"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected budget detail item, got %v", errorObj["errors"])
	}
	primary, _ := items[0].(map[string]any)
	if primary["reason"] != "budgetViolation" {
		t.Fatalf("expected budgetViolation reason, got %v", primary["reason"])
	}
	detail, _ := items[1].(map[string]any)
	if msg, _ := detail["message"].(string); msg != "team 1 has 75.5 Cr remaining" {
		t.Fatalf("unexpected remaining purse message: %q", msg)
	}
}

func TestUpdatePlayer_SoldFlipWithoutTeamIsBadRequest(t *testing.T) {
	router := newTestRouter(t)

	// Player 7 is unsold; the flag alone cannot make a valid sold entry.
	rec, envelope := doJSON(t, router, http.MethodPut, "/v1/players/7", `{"isUnsold":false}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if errorObj["status"] != "INVALID_ARGUMENT" {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestUpdatePlayer_UnsoldRejectsAmountEdit(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPut, "/v1/players/7", `{"soldAmountCr":50}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateTeam_DuplicateNameIsBadRequest(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/teams", `{"name":"Mumbai Mavericks"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if errorObj["status"] != "INVALID_ARGUMENT" {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestCreatePlayer_SoldHappyPath(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name":"Ishan Verma","role":"Bowler","soldAmountCr":6.4,"teamId":3,"points":120}`
	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/players", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := envelope["data"].(map[string]any)
	if data["teamName"] != "Bengaluru Blasters" {
		t.Fatalf("expected buying team name in response, got %v", data)
	}
	if got := data["soldAmountCr"].(float64); got != 6.4 {
		t.Fatalf("soldAmountCr = %v, want 6.4", got)
	}
}

func TestCreatePlayer_RejectsUnknownField(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name":"X","role":"Batter","soldAmountCr":1,"teamId":1,"surprise":true}`
	rec, _ := doJSON(t, router, http.MethodPost, "/v1/players", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestGetTeam_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/teams/99", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if errorObj["status"] != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", errorObj["status"])
	}
}

func TestSearchPlayers(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/players/search?q=aR", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items, _ := envelope["data"].([]any)
	if len(items) == 0 {
		t.Fatalf("expected case-insensitive matches for %q", "aR")
	}
	for _, raw := range items {
		item, _ := raw.(map[string]any)
		name, _ := item["name"].(string)
		if !strings.Contains(strings.ToLower(name), "ar") {
			t.Fatalf("result %q does not match query", name)
		}
	}
}

func TestGetStatsReport_Composite(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	data, _ := envelope["data"].(map[string]any)
	overview, _ := data["overview"].(map[string]any)
	if got := overview["totalSpentCr"].(float64); got != 72.15 {
		t.Fatalf("totalSpentCr = %v, want 72.15", got)
	}
	topPlayers, _ := data["topPlayers"].([]any)
	if len(topPlayers) != 5 {
		t.Fatalf("expected 5 top players, got %d", len(topPlayers))
	}
	leader, _ := topPlayers[0].(map[string]any)
	if leader["playerName"] != "Karan Mehra" {
		t.Fatalf("unexpected top bid: %v", leader)
	}
	byRole, _ := data["byRole"].([]any)
	if len(byRole) != 4 {
		t.Fatalf("expected 4 roles, got %d", len(byRole))
	}
}

func TestUpdateMaxPurse_PropagatesToAllTeams(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPut, "/v1/settings/max-purse", `{"maxPurseCr":120}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := envelope["data"].(map[string]any)
	if got := data["affectedTeams"].(float64); got != 4 {
		t.Fatalf("affectedTeams = %v, want 4", got)
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/teams/1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	team, _ := envelope["data"].(map[string]any)
	if got := team["maxPurseCr"].(float64); got != 120 {
		t.Fatalf("maxPurseCr = %v, want 120", got)
	}
}

func TestRunAudit_RequiresInternalToken(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/internal/audit", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/internal/audit", "", map[string]string{
		"X-Internal-Job-Token": testInternalToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := envelope["data"].(map[string]any)
	if got := data["team_count"].(float64); got != 4 {
		t.Fatalf("team_count = %v, want 4", got)
	}
	if got := data["overspent_count"].(float64); got != 0 {
		t.Fatalf("overspent_count = %v, want 0", got)
	}
}

func TestDeleteTeam_RefusedWhileRosterRemains(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodDelete, "/v1/teams/1", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if errorObj["status"] != "INVALID_ARGUMENT" {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}
