// internal/store/store.go
//
// The record store holds every user and task record in memory and offers
// CRUD primitives only. Access decisions and validation belong to the
// policy and service layers; nothing here looks at roles.
//
// The store is not safe for concurrent use. The program processes one
// session at a time, so callers serialize access themselves.

package store

import (
	"errors"

	"github.com/PedroCPaez/task-manager/internal/task"
)

var (
	// ErrTaskNotFound is returned when a task id has no record.
	ErrTaskNotFound = errors.New("store: task not found")

	// ErrUserNotFound is returned when a username has no record.
	ErrUserNotFound = errors.New("store: user not found")

	// ErrUserExists is returned when provisioning a username twice.
	ErrUserExists = errors.New("store: user already exists")
)

// Store keeps task and user records in insertion order. Task ids are
// monotonic and never reused, even after a snapshot reload.
type Store struct {
	users     map[string]int // username -> index into userOrder
	userOrder []task.User

	tasks     map[int]int // task id -> index into taskOrder
	taskOrder []task.Task

	nextID int
}

// New returns an empty store. The first created task gets id 1.
func New() *Store {
	return &Store{
		users:  map[string]int{},
		tasks:  map[int]int{},
		nextID: 1,
	}
}

// CreateUser provisions a new account record.
func (s *Store) CreateUser(u task.User) error {
	if _, ok := s.users[u.Username]; ok {
		return ErrUserExists
	}
	s.users[u.Username] = len(s.userOrder)
	s.userOrder = append(s.userOrder, u)
	return nil
}

// User returns the record for the given username.
func (s *Store) User(username string) (task.User, error) {
	idx, ok := s.users[username]
	if !ok {
		return task.User{}, ErrUserNotFound
	}
	return s.userOrder[idx], nil
}

// Users returns all user records in provisioning order.
func (s *Store) Users() []task.User {
	out := make([]task.User, len(s.userOrder))
	copy(out, s.userOrder)
	return out
}

// SetPassword replaces a user's password hash. User records are otherwise
// immutable after provisioning.
func (s *Store) SetPassword(username, passwordHash string) error {
	idx, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	s.userOrder[idx].PasswordHash = passwordHash
	return nil
}

// CreateTask appends a new task record owned by owner. The id is the next
// monotonic value and the completed flag starts false.
func (s *Store) CreateTask(owner, description string, due task.Date) task.Task {
	t := task.Task{
		ID:          s.nextID,
		Owner:       owner,
		Description: description,
		Due:         due,
	}
	s.nextID++
	s.tasks[t.ID] = len(s.taskOrder)
	s.taskOrder = append(s.taskOrder, t)
	return t
}

// Task returns the record with the given id.
func (s *Store) Task(id int) (task.Task, error) {
	idx, ok := s.tasks[id]
	if !ok {
		return task.Task{}, ErrTaskNotFound
	}
	return s.taskOrder[idx], nil
}

// Tasks returns task records in insertion order. A nil filter keeps
// everything.
func (s *Store) Tasks(filter func(task.Task) bool) []task.Task {
	var out []task.Task
	for _, t := range s.taskOrder {
		if filter == nil || filter(t) {
			out = append(out, t)
		}
	}
	return out
}

// Patch is a partial task update. Nil fields are left untouched; set
// fields are applied together in a single step.
type Patch struct {
	Owner       *string
	Description *string
	Due         *task.Date
	Completed   *bool
}

// UpdateTask applies the patch to the task with the given id and returns
// the updated record.
func (s *Store) UpdateTask(id int, patch Patch) (task.Task, error) {
	idx, ok := s.tasks[id]
	if !ok {
		return task.Task{}, ErrTaskNotFound
	}
	updated := s.taskOrder[idx]
	if patch.Owner != nil {
		updated.Owner = *patch.Owner
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Due != nil {
		updated.Due = *patch.Due
	}
	if patch.Completed != nil {
		updated.Completed = *patch.Completed
	}
	s.taskOrder[idx] = updated
	return updated, nil
}
