// internal/task/task.go
//
// Core record types shared by the store, the access policy, the task
// service and the reporting engine. Everything here is a plain value;
// behavior lives in the packages that consume these types.

package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DateFormat is the on-disk and on-screen date layout (DD-MM-YYYY).
const DateFormat = "02-01-2006"

// Role separates the two privilege levels the system knows about.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole normalizes a role string read from config or user input.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember:
		return RoleMember, nil
	default:
		return "", fmt.Errorf("task: unknown role %q", value)
	}
}

// User is an account record. Immutable after provisioning except for the
// password hash.
type User struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         Role   `yaml:"role"`
}

// Task is a single task record. IDs are assigned by the store, start at 1
// and are never reused within a store lifetime.
type Task struct {
	ID          int    `yaml:"id"`
	Owner       string `yaml:"owner"`
	Description string `yaml:"description"`
	Due         Date   `yaml:"due_date"`
	Completed   bool   `yaml:"completed"`
}

// Editable task field names as the service and the front-end spell them.
const (
	FieldOwner       = "owner"
	FieldDescription = "description"
	FieldDueDate     = "due_date"
	FieldCompleted   = "completed"
)

// Overdue reports whether the task's due date has passed without the task
// being completed.
func (t Task) Overdue(today Date) bool {
	return !t.Completed && t.Due.Before(today)
}

// Session is the authenticated identity a login produces. It is passed
// explicitly into every service and report call; there is no ambient
// current-user state.
type Session struct {
	ID   uuid.UUID
	User string
	Role Role
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// Date is a calendar day with no time-of-day component. It marshals to
// YAML as DD-MM-YYYY so persisted snapshots stay readable and round-trip
// exactly.
type Date struct {
	t time.Time
}

// ParseDate parses DD-MM-YYYY input.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(DateFormat, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("task: parse date %q: %w", value, err)
	}
	return Date{t: parsed}, nil
}

// DateOf truncates an instant to its calendar day in UTC.
func DateOf(instant time.Time) Date {
	y, m, d := instant.UTC().Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// Equal reports whether two dates fall on the same day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool { return d.t.IsZero() }

// String renders the date as DD-MM-YYYY.
func (d Date) String() string { return d.t.Format(DateFormat) }

// MarshalYAML encodes the date as a DD-MM-YYYY scalar.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML decodes a DD-MM-YYYY scalar.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidationError reports malformed input: an empty description, an
// unparsable date, an unknown field name. The Field names which input was
// rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("task: invalid %s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for the given field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
