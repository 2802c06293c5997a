// Package state persists per-ticker position snapshots between monitor
// invocations, keeping live replays reproducible without process globals.
package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"trendscan/types"
)

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the snapshot map. A missing or empty file yields an empty map.
func (s *Store) Load() (map[string]types.PositionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil, errors.New("empty state path")
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]types.PositionSnapshot{}, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return map[string]types.PositionSnapshot{}, nil
	}
	var snaps map[string]types.PositionSnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, err
	}
	if snaps == nil {
		snaps = map[string]types.PositionSnapshot{}
	}
	return snaps, nil
}

func (s *Store) Save(snaps map[string]types.PositionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return errors.New("empty state path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return errors.New("empty state path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte{}, 0o644)
}
