// internal/store/persist.go
//
// Snapshot persistence. The whole store is loaded from a single YAML file
// at startup and rewritten wholesale at shutdown; there is no incremental
// writing and no partial-write recovery.

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/PedroCPaez/task-manager/internal/task"
)

// Snapshot is the serialized form of a store. NextID is persisted so task
// ids are never reused across runs.
type Snapshot struct {
	NextID int         `yaml:"next_id"`
	Users  []task.User `yaml:"users"`
	Tasks  []task.Task `yaml:"tasks"`
}

// Snapshot captures the full store state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		NextID: s.nextID,
		Users:  s.Users(),
		Tasks:  s.Tasks(nil),
	}
}

// FromSnapshot rebuilds a store, checking the record invariants: unique
// usernames, unique task ids, and every task owner referencing an
// existing user.
func FromSnapshot(snap Snapshot) (*Store, error) {
	s := New()
	for _, u := range snap.Users {
		if err := s.CreateUser(u); err != nil {
			return nil, fmt.Errorf("store: snapshot user %q: %w", u.Username, err)
		}
	}
	for _, t := range snap.Tasks {
		if _, ok := s.tasks[t.ID]; ok {
			return nil, fmt.Errorf("store: snapshot: duplicate task id %d", t.ID)
		}
		if _, ok := s.users[t.Owner]; !ok {
			return nil, fmt.Errorf("store: snapshot task %d: owner %q: %w", t.ID, t.Owner, ErrUserNotFound)
		}
		s.tasks[t.ID] = len(s.taskOrder)
		s.taskOrder = append(s.taskOrder, t)
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	if snap.NextID > s.nextID {
		s.nextID = snap.NextID
	}
	return s, nil
}

// Load reads a snapshot file. A missing file yields an empty store; the
// first Save creates it.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", path, err)
	}
	return FromSnapshot(snap)
}

// Save rewrites the snapshot file with the current store state.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store: ensure data dir: %w", err)
	}
	data, err := yaml.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}
