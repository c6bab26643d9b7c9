package memory

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/adimehta/auction-tracker/internal/domain/settings"
)

type SettingsRepository struct {
	store *Store
}

func (r *SettingsRepository) List(_ context.Context) ([]settings.Setting, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]settings.Setting, 0, len(s.settings))
	for key, value := range s.settings {
		out = append(out, settings.Setting{Key: key, Value: value})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})

	return out, nil
}

func (r *SettingsRepository) PropagateMaxPurse(_ context.Context, maxPurse int64) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[settings.KeyMaxPurse] = strconv.FormatInt(maxPurse, 10)

	now := time.Now().UTC()
	var affected int64
	for id, item := range s.teams {
		item.MaxPurse = maxPurse
		item.UpdatedAt = now
		s.teams[id] = item
		affected++
	}

	return affected, nil
}
