package tui

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PedroCPaez/task-manager/internal/auth"
	"github.com/PedroCPaez/task-manager/internal/config"
	"github.com/PedroCPaez/task-manager/internal/store"
	"github.com/PedroCPaez/task-manager/internal/task"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	projectDir := t.TempDir()
	if err := config.InitTaskmanDir(projectDir); err != nil {
		t.Fatalf("init taskman dir: %v", err)
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}

	st := store.New()
	if _, err := auth.EnsureDefaultAdmin(st); err != nil {
		t.Fatal(err)
	}
	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.CreateUser(task.User{Username: "alice", PasswordHash: hash, Role: task.RoleMember}); err != nil {
		t.Fatal(err)
	}
	return NewApp(cfg, st, nil)
}

func login(t *testing.T, app *App, username, password string) {
	t.Helper()
	app.inputs[0].SetValue(username)
	app.inputs[1].SetValue(password)
	app.focusIndex = len(app.inputs) - 1
	if _, _ = app.submitLogin(); app.state != stateMainMenu {
		t.Fatalf("login as %s failed: %s", username, app.errMsg)
	}
}

func menuTitles(app *App) []string {
	var titles []string
	for _, item := range app.menu.Items() {
		titles = append(titles, item.(menuItem).title)
	}
	return titles
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.inputs[0].SetValue("alice")
	app.inputs[1].SetValue("wrong")
	app.submitLogin()
	if app.state != stateLogin {
		t.Fatalf("bad login must stay on login screen")
	}
	if app.errMsg == "" {
		t.Fatalf("expected an error message")
	}
	if app.inputs[1].Value() != "" {
		t.Fatalf("password field must be cleared after a failed login")
	}
}

func TestMenuIsRoleAware(t *testing.T) {
	app := newTestApp(t)
	login(t, app, "alice", "pw")
	titles := strings.Join(menuTitles(app), "|")
	for _, forbidden := range []string{menuViewAll, menuRegisterUser, menuStats, menuReports} {
		if strings.Contains(titles, forbidden) {
			t.Fatalf("member menu offers %q: %s", forbidden, titles)
		}
	}

	admin := newTestApp(t)
	login(t, admin, auth.DefaultAdminUsername, auth.DefaultAdminPassword)
	titles = strings.Join(menuTitles(admin), "|")
	for _, required := range []string{menuAddTask, menuViewAll, menuRegisterUser, menuStats, menuReports} {
		if !strings.Contains(titles, required) {
			t.Fatalf("admin menu missing %q: %s", required, titles)
		}
	}
}

func TestMemberCannotReachReports(t *testing.T) {
	app := newTestApp(t)
	login(t, app, "alice", "pw")
	app.handleMenuChoice(menuStats)
	if app.state == stateStats {
		t.Fatalf("member reached the statistics screen")
	}
	if app.errMsg == "" {
		t.Fatalf("expected a permission message")
	}
}

func TestGenerateReportsWritesFiles(t *testing.T) {
	app := newTestApp(t)
	login(t, app, auth.DefaultAdminUsername, auth.DefaultAdminPassword)
	app.handleMenuChoice(menuReports)
	if app.errMsg != "" {
		t.Fatalf("generate reports: %s", app.errMsg)
	}
	if _, err := os.Stat(filepath.Join(app.cfg.ReportsDir(), "task_overview.txt")); err != nil {
		t.Fatalf("task overview not written: %v", err)
	}
}

func TestEditLockForCompletedAndOverdueTasks(t *testing.T) {
	prev := nowFn
	nowFn = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFn = prev })

	app := newTestApp(t)
	login(t, app, "alice", "pw")

	sess := app.sess
	overdue, err := app.tasks.AddTask(sess, "late task", "01-06-2024")
	if err != nil {
		t.Fatal(err)
	}
	open, err := app.tasks.AddTask(sess, "open task", "30-06-2024")
	if err != nil {
		t.Fatal(err)
	}

	app.handleMenuChoice(menuViewMine)
	if app.state != stateTaskList {
		t.Fatalf("expected task list, got state %d", app.state)
	}

	pick := func(id int) {
		t.Helper()
		app.listing = app.tasks.ListMine(sess)
		app.state = stateEditSelect
		app.setupEditSelectInput()
		app.inputs[0].SetValue(strconv.Itoa(id))
		app.pickEditTask()
	}

	pick(overdue.ID)
	if app.state == stateEditField {
		t.Fatalf("overdue task must not be editable from the list")
	}
	if app.errMsg == "" {
		t.Fatalf("expected edit-lock message for overdue task")
	}

	app.errMsg = ""
	pick(open.ID)
	if app.state != stateEditField {
		t.Fatalf("open task should reach the field menu, got state %d", app.state)
	}
}
