package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/adimehta/auction-tracker/internal/domain/auction"
	"github.com/adimehta/auction-tracker/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestWriteError_BudgetViolationCarriesRemainingPurse(t *testing.T) {
	rec := httptest.NewRecorder()
	budgetErr := &auction.BudgetError{TeamID: 3, Requested: 2000, Remaining: 1250}
	writeError(context.Background(), rec, fmt.Errorf("%w: %w", usecase.ErrInvalidInput, budgetErr))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
	items, ok := errorObj["errors"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected two error items, got %v", errorObj["errors"])
	}
	detail, _ := items[1].(map[string]any)
	if got, _ := detail["reason"].(string); got != "remainingPurse" {
		t.Fatalf("expected remainingPurse detail, got %v", detail)
	}
	if msg, _ := detail["message"].(string); msg != "team 3 has 12.5 Cr remaining" {
		t.Fatalf("unexpected remaining purse message: %q", msg)
	}
}

func TestMapError_Statuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantHTTP   int
		wantStatus string
	}{
		{name: "invalid input", err: usecase.ErrInvalidInput, wantHTTP: 400, wantStatus: "INVALID_ARGUMENT"},
		{name: "budget violation", err: fmt.Errorf("%w: %w", usecase.ErrInvalidInput, auction.ErrInsufficientBudget), wantHTTP: 400, wantStatus: "INVALID_ARGUMENT"},
		{name: "not found", err: usecase.ErrNotFound, wantHTTP: 404, wantStatus: "NOT_FOUND"},
		{name: "unauthorized", err: usecase.ErrUnauthorized, wantHTTP: 401, wantStatus: "UNAUTHENTICATED"},
		{name: "dependency", err: usecase.ErrDependencyUnavailable, wantHTTP: 503, wantStatus: "UNAVAILABLE"},
		{name: "unknown", err: fmt.Errorf("boom"), wantHTTP: 500, wantStatus: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(context.Background(), tt.err)
			if mapped.HTTPStatus != tt.wantHTTP {
				t.Fatalf("HTTPStatus = %d, want %d", mapped.HTTPStatus, tt.wantHTTP)
			}
			if mapped.Status != tt.wantStatus {
				t.Fatalf("Status = %q, want %q", mapped.Status, tt.wantStatus)
			}
		})
	}
}
