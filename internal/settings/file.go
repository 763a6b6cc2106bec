package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileStore persists settings as a single JSON file keyed by user id.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context, userID string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.read()
	if err != nil {
		return Settings{}, err
	}
	if saved, ok := all[userID]; ok {
		return merge(Defaults(), saved), nil
	}
	return Defaults(), nil
}

func (s *FileStore) Save(ctx context.Context, userID string, partial Settings) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.read()
	if err != nil {
		return Settings{}, err
	}
	all[userID] = merge(all[userID], partial)
	if err := s.write(all); err != nil {
		return Settings{}, err
	}
	return merge(Defaults(), all[userID]), nil
}

func (s *FileStore) read() (map[string]Settings, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]Settings), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	all := make(map[string]Settings)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &all); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
	}
	return all, nil
}

func (s *FileStore) write(all map[string]Settings) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
