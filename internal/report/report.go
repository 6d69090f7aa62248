// internal/report/report.go
//
// The reporting engine aggregates the record store into overall totals
// and a per-user breakdown. Reports are recomputed from the store on
// every call — nothing is cached, so a report always reflects the records
// as they stand.

package report

import (
	"time"

	"github.com/PedroCPaez/task-manager/internal/policy"
	"github.com/PedroCPaez/task-manager/internal/store"
	"github.com/PedroCPaez/task-manager/internal/task"
)

// Engine derives reports from a record store.
type Engine struct {
	store *store.Store
	now   func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock overrides the wall clock, letting tests pin "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New returns a reporting engine over the given store.
func New(st *store.Store, opts ...Option) *Engine {
	e := &Engine{store: st, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UserStats is one user's slice of the task set.
type UserStats struct {
	Assigned    int
	Completed   int
	Uncompleted int
	Overdue     int
}

// Report is a full aggregation over the store. Users holds per-user
// stats; UserOrder preserves provisioning order for stable rendering.
type Report struct {
	Today task.Date

	TotalUsers  int
	Total       int
	Completed   int
	Uncompleted int
	Overdue     int

	Users     map[string]UserStats
	UserOrder []string
}

// Generate computes a report. Admin only.
func (e *Engine) Generate(sess task.Session) (Report, error) {
	if !policy.CanGenerateReports(sess) {
		return Report{}, policy.ErrPermissionDenied
	}

	r := Report{
		Today: task.DateOf(e.now()),
		Users: map[string]UserStats{},
	}
	for _, u := range e.store.Users() {
		r.Users[u.Username] = UserStats{}
		r.UserOrder = append(r.UserOrder, u.Username)
	}
	r.TotalUsers = len(r.UserOrder)

	for _, t := range e.store.Tasks(nil) {
		stats := r.Users[t.Owner]
		stats.Assigned++
		r.Total++
		if t.Completed {
			stats.Completed++
			r.Completed++
		} else {
			stats.Uncompleted++
			r.Uncompleted++
			if t.Overdue(r.Today) {
				stats.Overdue++
				r.Overdue++
			}
		}
		r.Users[t.Owner] = stats
	}
	return r, nil
}

// Percent returns part over whole as a truncated integer percentage, with
// 0 for an empty whole.
func Percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return part * 100 / whole
}
