package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/adimehta/auction-tracker/internal/domain/settings"
)

type settingsRepositoryMock struct {
	mock.Mock
}

func (m *settingsRepositoryMock) List(ctx context.Context) ([]settings.Setting, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]settings.Setting)
	return items, args.Error(1)
}

func (m *settingsRepositoryMock) PropagateMaxPurse(ctx context.Context, maxPurse int64) (int64, error) {
	args := m.Called(ctx, maxPurse)
	return args.Get(0).(int64), args.Error(1)
}

func TestSettingsService_UpdateMaxPurse_PassesAffectedCountThrough(t *testing.T) {
	t.Parallel()

	repo := &settingsRepositoryMock{}
	service := NewSettingsService(repo)

	repo.
		On("PropagateMaxPurse", mock.Anything, int64(8000)).
		Return(int64(7), nil).
		Once()

	affected, err := service.UpdateMaxPurse(context.Background(), 8000)
	if err != nil {
		t.Fatalf("update max purse: %v", err)
	}
	if affected != 7 {
		t.Fatalf("unexpected affected count: %d", affected)
	}
	repo.AssertExpectations(t)
}

func TestSettingsService_UpdateMaxPurse_WrapsStoreError(t *testing.T) {
	t.Parallel()

	repo := &settingsRepositoryMock{}
	service := NewSettingsService(repo)

	storeErr := errors.New("tx aborted")
	repo.
		On("PropagateMaxPurse", mock.Anything, int64(8000)).
		Return(int64(0), storeErr).
		Once()

	_, err := service.UpdateMaxPurse(context.Background(), 8000)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	repo.AssertExpectations(t)
}

func TestSettingsService_UpdateMaxPurse_DoesNotTouchStoreOnInvalidInput(t *testing.T) {
	t.Parallel()

	repo := &settingsRepositoryMock{}
	service := NewSettingsService(repo)

	if _, err := service.UpdateMaxPurse(context.Background(), -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	repo.AssertNotCalled(t, "PropagateMaxPurse", mock.Anything, mock.Anything)
}
