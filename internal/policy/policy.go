// internal/policy/policy.go
//
// Access policy. Pure predicates over a session's role and a task's
// owner; no store access, no state. The two roles are deliberately not
// modeled as types with behavior — a predicate over {role, owner} is all
// a two-role system needs.

package policy

import (
	"errors"

	"github.com/PedroCPaez/task-manager/internal/task"
)

// ErrPermissionDenied is returned by the service and report layers when a
// session is authenticated but lacks the role or ownership an operation
// requires.
var ErrPermissionDenied = errors.New("policy: permission denied")

// memberFields are the task fields an owner may edit on their own tasks.
// Reassigning the owner field is reserved to admins.
var memberFields = map[string]bool{
	task.FieldDescription: true,
	task.FieldDueDate:     true,
	task.FieldCompleted:   true,
}

// CanView reports whether the session may read the task: admins see
// everything, members see their own tasks.
func CanView(sess task.Session, t task.Task) bool {
	return sess.IsAdmin() || sess.User == t.Owner
}

// CanEdit reports whether the session may change the given field of the
// task. Admins edit any field; owners edit description, due date and
// completion on their own tasks.
func CanEdit(sess task.Session, t task.Task, field string) bool {
	if sess.IsAdmin() {
		return true
	}
	return sess.User == t.Owner && memberFields[field]
}

// CanGenerateReports reports whether the session may run aggregate
// reports and statistics.
func CanGenerateReports(sess task.Session) bool {
	return sess.IsAdmin()
}
