// internal/service/service.go
//
// The task service orchestrates add/list/edit over the record store,
// gated by the access policy. It owns the input validation rules; the
// store stays a dumb record holder and the policy stays pure.

package service

import (
	"strconv"
	"strings"

	"github.com/PedroCPaez/task-manager/internal/logging"
	"github.com/PedroCPaez/task-manager/internal/policy"
	"github.com/PedroCPaez/task-manager/internal/store"
	"github.com/PedroCPaez/task-manager/internal/task"
)

// TaskService exposes the four task operations the front-end renders.
type TaskService struct {
	store *store.Store
	log   *logging.Logger
}

// New returns a task service over the given store. The logger may be nil.
func New(st *store.Store, log *logging.Logger) *TaskService {
	return &TaskService{store: st, log: log}
}

// AddTask creates a task owned by the session's user. The description
// must be non-empty and the due date must parse as DD-MM-YYYY.
func (s *TaskService) AddTask(sess task.Session, description, dueDate string) (task.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return task.Task{}, task.Validationf(task.FieldDescription, "must not be empty")
	}
	due, err := task.ParseDate(dueDate)
	if err != nil {
		return task.Task{}, task.Validationf(task.FieldDueDate, "expected %s", strings.ToUpper(task.DateFormat))
	}
	if _, err := s.store.User(sess.User); err != nil {
		return task.Task{}, err
	}
	created := s.store.CreateTask(sess.User, description, due)
	s.log.Printf("task %d added by %s (due %s)", created.ID, sess.User, created.Due)
	return created, nil
}

// ListAll returns every task. Admin only.
func (s *TaskService) ListAll(sess task.Session) ([]task.Task, error) {
	if !sess.IsAdmin() {
		return nil, policy.ErrPermissionDenied
	}
	return s.store.Tasks(nil), nil
}

// ListMine returns the tasks owned by the session's user.
func (s *TaskService) ListMine(sess task.Session) []task.Task {
	return s.store.Tasks(func(t task.Task) bool {
		return t.Owner == sess.User
	})
}

// EditTask applies a single-field change to the task with the given id.
// The field name must be one of owner, description, due_date or
// completed; the patch is applied atomically or not at all.
func (s *TaskService) EditTask(sess task.Session, id int, field, value string) (task.Task, error) {
	patch, err := s.buildPatch(field, value)
	if err != nil {
		return task.Task{}, err
	}
	current, err := s.store.Task(id)
	if err != nil {
		return task.Task{}, err
	}
	if !policy.CanEdit(sess, current, field) {
		return task.Task{}, policy.ErrPermissionDenied
	}
	updated, err := s.store.UpdateTask(id, patch)
	if err != nil {
		return task.Task{}, err
	}
	s.log.Printf("task %d: %s changed by %s", id, field, sess.User)
	return updated, nil
}

// buildPatch validates the value for the named field and returns the
// single-field patch to apply.
func (s *TaskService) buildPatch(field, value string) (store.Patch, error) {
	switch field {
	case task.FieldOwner:
		owner := strings.TrimSpace(value)
		if _, err := s.store.User(owner); err != nil {
			return store.Patch{}, err
		}
		return store.Patch{Owner: &owner}, nil
	case task.FieldDescription:
		description := strings.TrimSpace(value)
		if description == "" {
			return store.Patch{}, task.Validationf(field, "must not be empty")
		}
		return store.Patch{Description: &description}, nil
	case task.FieldDueDate:
		due, err := task.ParseDate(value)
		if err != nil {
			return store.Patch{}, task.Validationf(field, "expected %s", strings.ToUpper(task.DateFormat))
		}
		return store.Patch{Due: &due}, nil
	case task.FieldCompleted:
		completed, err := parseCompleted(value)
		if err != nil {
			return store.Patch{}, err
		}
		return store.Patch{Completed: &completed}, nil
	default:
		return store.Patch{}, task.Validationf("field", "unknown field %q", field)
	}
}

// parseCompleted accepts Go booleans plus the yes/no spelling shown in
// the task list.
func parseCompleted(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	completed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, task.Validationf(task.FieldCompleted, "expected yes/no or true/false")
	}
	return completed, nil
}
