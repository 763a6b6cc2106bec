package settings

import (
	"context"
	"encoding/json"
	"fmt"
)

// KV is the minimal key/value surface RedisStore needs. The infra redis
// client satisfies it; tests can supply a map-backed fake.
type KV interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
}

// RedisStore persists settings as JSON values under settings:<user id>.
type RedisStore struct {
	kv KV
}

func NewRedisStore(kv KV) *RedisStore {
	return &RedisStore{kv: kv}
}

func settingsKey(userID string) string {
	return "settings:" + userID
}

func (s *RedisStore) Load(ctx context.Context, userID string) (Settings, error) {
	raw, found, err := s.kv.GetValue(ctx, settingsKey(userID))
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !found {
		return Defaults(), nil
	}
	var saved Settings
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return Settings{}, fmt.Errorf("failed to parse stored settings: %w", err)
	}
	return merge(Defaults(), saved), nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, partial Settings) (Settings, error) {
	current := Settings{}
	raw, found, err := s.kv.GetValue(ctx, settingsKey(userID))
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if found {
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			return Settings{}, fmt.Errorf("failed to parse stored settings: %w", err)
		}
	}
	current = merge(current, partial)
	data, err := json.Marshal(current)
	if err != nil {
		return Settings{}, err
	}
	if err := s.kv.SetValue(ctx, settingsKey(userID), string(data)); err != nil {
		return Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return merge(Defaults(), current), nil
}
