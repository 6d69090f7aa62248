// internal/tui/app.go
//
// This is the interactive front-end for the task manager. It uses
// bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The front-end only renders; every decision (validation, permissions,
// aggregation) is made by the service, policy and report packages, and
// their errors are surfaced here unchanged.

package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PedroCPaez/task-manager/internal/auth"
	"github.com/PedroCPaez/task-manager/internal/config"
	"github.com/PedroCPaez/task-manager/internal/logbook"
	"github.com/PedroCPaez/task-manager/internal/logging"
	"github.com/PedroCPaez/task-manager/internal/policy"
	"github.com/PedroCPaez/task-manager/internal/report"
	"github.com/PedroCPaez/task-manager/internal/service"
	"github.com/PedroCPaez/task-manager/internal/store"
	"github.com/PedroCPaez/task-manager/internal/task"
)

// nowFn supplies "today" for the overdue highlighting and the edit lock;
// tests pin it.
var nowFn = time.Now

// appState represents which "screen" we're on.
type appState int

const (
	stateLogin      appState = iota // username/password prompt
	stateMainMenu                   // role-aware main menu
	stateAddTask                    // add-task form
	stateRegister                   // register-user form (admin)
	stateTaskList                   // listing all/my tasks
	stateEditSelect                 // pick a task id to edit
	stateEditField                  // pick which field to change
	stateEditValue                  // enter the new value
	stateStats                      // on-screen statistics (admin)
	stateActivity                   // recent activity journal (admin)
)

// Menu entry titles. Update handles selection by matching these.
const (
	menuAddTask      = "Add a task"
	menuViewMine     = "View my tasks"
	menuViewAll      = "View all tasks"
	menuRegisterUser = "Register a user"
	menuStats        = "Display statistics"
	menuReports      = "Generate reports"
	menuActivity     = "View activity"
	menuLogout       = "Log out"
	menuExit         = "Exit"
)

// App is the main application model. In bubbletea, this holds ALL your
// state.
type App struct {
	cfg     *config.Config
	store   *store.Store
	auth    *auth.Authenticator
	tasks   *service.TaskService
	reports *report.Engine
	log     *logging.Logger
	journal *logbook.Logbook

	state appState
	sess  task.Session

	// UI components
	menu       list.Model
	inputs     []textinput.Model
	focusIndex int

	// Task listing / edit flow
	listing      []task.Task
	listingTitle string
	editing      task.Task
	fields       []string
	fieldIndex   int
	editField    string

	statsBody    string
	activityBody string

	statusMsg string
	errMsg    string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item for our menu entries.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp wires the front-end to an already loaded store.
func NewApp(cfg *config.Config, st *store.Store, log *logging.Logger, opts ...report.Option) *App {
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "TASK MANAGER"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	app := &App{
		cfg:     cfg,
		store:   st,
		auth:    auth.New(st),
		tasks:   service.New(st, log),
		reports: report.New(st, opts...),
		log:     log,
		state:   stateLogin,
		menu:    menu,
	}
	if journal, err := logbook.New(cfg.ActivityLogPath()); err == nil {
		app.journal = journal
	}
	app.setupLoginInputs()
	return app
}

// Init starts the cursor blink for the login form.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes messages to the handler for the current screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(msg.Width-4, msg.Height-6)
		return a, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	}

	switch a.state {
	case stateLogin:
		return a.updateLogin(msg)
	case stateMainMenu:
		return a.updateMainMenu(msg)
	case stateAddTask:
		return a.updateAddTask(msg)
	case stateRegister:
		return a.updateRegister(msg)
	case stateTaskList:
		return a.updateTaskList(msg)
	case stateEditSelect:
		return a.updateEditSelect(msg)
	case stateEditField:
		return a.updateEditField(msg)
	case stateEditValue:
		return a.updateEditValue(msg)
	case stateStats, stateActivity:
		return a.updateReadOnlyView(msg)
	}
	return a, nil
}

// --- login ---

func (a *App) setupLoginInputs() {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	a.inputs = []textinput.Model{username, password}
	a.focusIndex = 0
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab:
			a.cycleFocus(key.Type == tea.KeyShiftTab)
			return a, nil
		case tea.KeyEnter:
			if a.focusIndex < len(a.inputs)-1 {
				a.cycleFocus(false)
				return a, nil
			}
			return a.submitLogin()
		}
	}
	return a, a.updateInputs(msg)
}

func (a *App) submitLogin() (tea.Model, tea.Cmd) {
	sess, err := a.auth.Authenticate(a.inputs[0].Value(), a.inputs[1].Value())
	if err != nil {
		a.errMsg = "Incorrect username or password."
		a.inputs[1].SetValue("")
		a.log.Printf("failed login for %q", strings.TrimSpace(a.inputs[0].Value()))
		a.journal.Warn("failed login for %q", strings.TrimSpace(a.inputs[0].Value()))
		return a, nil
	}
	a.sess = sess
	a.errMsg = ""
	a.statusMsg = fmt.Sprintf("Logged in as %s (%s).", sess.User, sess.Role)
	a.log.Printf("session %s opened for %s (%s)", sess.ID, sess.User, sess.Role)
	a.journal.Info("%s logged in", sess.User)
	a.refreshMenu()
	a.state = stateMainMenu
	return a, nil
}

// refreshMenu rebuilds the main menu for the current session's role.
func (a *App) refreshMenu() {
	items := []list.Item{
		menuItem{title: menuAddTask, desc: "Create a task assigned to you"},
		menuItem{title: menuViewMine, desc: "List and edit your tasks"},
	}
	if a.sess.IsAdmin() {
		items = append(items,
			menuItem{title: menuViewAll, desc: "List and edit every task"},
			menuItem{title: menuRegisterUser, desc: "Provision a new account"},
			menuItem{title: menuStats, desc: "Task and user statistics"},
			menuItem{title: menuReports, desc: "Write report files"},
			menuItem{title: menuActivity, desc: "Recent session activity"},
		)
	}
	items = append(items,
		menuItem{title: menuLogout, desc: "Return to the login screen"},
		menuItem{title: menuExit, desc: "Save and quit"},
	)
	a.menu.SetItems(items)
	a.menu.Select(0)
}

// --- main menu ---

func (a *App) updateMainMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		item, ok := a.menu.SelectedItem().(menuItem)
		if !ok {
			return a, nil
		}
		return a.handleMenuChoice(item.title)
	}
	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func (a *App) handleMenuChoice(choice string) (tea.Model, tea.Cmd) {
	a.errMsg = ""
	switch choice {
	case menuAddTask:
		a.setupAddTaskInputs()
		a.state = stateAddTask
	case menuViewMine:
		a.listing = a.tasks.ListMine(a.sess)
		a.listingTitle = "Your tasks"
		a.state = stateTaskList
	case menuViewAll:
		all, err := a.tasks.ListAll(a.sess)
		if err != nil {
			a.errMsg = renderError(err)
			return a, nil
		}
		a.listing = all
		a.listingTitle = "All tasks"
		a.state = stateTaskList
	case menuRegisterUser:
		a.setupRegisterInputs()
		a.state = stateRegister
	case menuStats:
		r, err := a.reports.Generate(a.sess)
		if err != nil {
			a.errMsg = renderError(err)
			return a, nil
		}
		a.statsBody = report.TaskOverview(r) + "\n" + report.UserOverview(r)
		a.state = stateStats
	case menuReports:
		written, err := a.reports.WriteFiles(a.sess, a.cfg.ReportsDir(), a.cfg.ReportFormats())
		if err != nil {
			a.errMsg = renderError(err)
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Reports written: %s", strings.Join(written, ", "))
		a.log.Printf("reports generated by %s: %d file(s)", a.sess.User, len(written))
		a.journal.Info("%s generated %d report file(s)", a.sess.User, len(written))
	case menuActivity:
		lines, total := a.journal.Tail(20)
		if total == 0 {
			a.activityBody = "No activity recorded yet."
		} else {
			a.activityBody = fmt.Sprintf("Showing %d of %d entries.\n\n%s",
				len(lines), total, strings.Join(lines, "\n"))
		}
		a.state = stateActivity
	case menuLogout:
		a.log.Printf("session %s closed", a.sess.ID)
		a.sess = task.Session{}
		a.statusMsg = ""
		a.setupLoginInputs()
		a.state = stateLogin
	case menuExit:
		return a, tea.Quit
	}
	return a, nil
}

// --- add task ---

func (a *App) setupAddTaskInputs() {
	description := textinput.New()
	description.Placeholder = "description"
	description.Focus()
	due := textinput.New()
	due.Placeholder = "due date (DD-MM-YYYY)"
	a.inputs = []textinput.Model{description, due}
	a.focusIndex = 0
}

func (a *App) updateAddTask(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			a.state = stateMainMenu
			return a, nil
		case tea.KeyTab, tea.KeyShiftTab:
			a.cycleFocus(key.Type == tea.KeyShiftTab)
			return a, nil
		case tea.KeyEnter:
			if a.focusIndex < len(a.inputs)-1 {
				a.cycleFocus(false)
				return a, nil
			}
			created, err := a.tasks.AddTask(a.sess, a.inputs[0].Value(), a.inputs[1].Value())
			if err != nil {
				a.errMsg = renderError(err)
				return a, nil
			}
			a.errMsg = ""
			a.statusMsg = fmt.Sprintf("Task %d added.", created.ID)
			a.journal.Info("%s added task %d (due %s)", a.sess.User, created.ID, created.Due)
			a.state = stateMainMenu
			return a, nil
		}
	}
	return a, a.updateInputs(msg)
}

// --- register user ---

func (a *App) setupRegisterInputs() {
	username := textinput.New()
	username.Placeholder = "new username"
	username.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	role := textinput.New()
	role.Placeholder = "role (admin/member)"
	role.SetValue(string(task.RoleMember))
	a.inputs = []textinput.Model{username, password, role}
	a.focusIndex = 0
}

func (a *App) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			a.state = stateMainMenu
			return a, nil
		case tea.KeyTab, tea.KeyShiftTab:
			a.cycleFocus(key.Type == tea.KeyShiftTab)
			return a, nil
		case tea.KeyEnter:
			if a.focusIndex < len(a.inputs)-1 {
				a.cycleFocus(false)
				return a, nil
			}
			role, err := task.ParseRole(a.inputs[2].Value())
			if err != nil {
				a.errMsg = "Role must be admin or member."
				return a, nil
			}
			u, err := a.auth.Register(a.sess, a.inputs[0].Value(), a.inputs[1].Value(), role)
			if err != nil {
				a.errMsg = renderError(err)
				return a, nil
			}
			a.errMsg = ""
			a.statusMsg = fmt.Sprintf("User %s registered as %s.", u.Username, u.Role)
			a.log.Printf("user %s registered by %s", u.Username, a.sess.User)
			a.journal.Info("%s registered user %s (%s)", a.sess.User, u.Username, u.Role)
			a.state = stateMainMenu
			return a, nil
		}
	}
	return a, a.updateInputs(msg)
}

// --- task listing and edit flow ---

func (a *App) updateTaskList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Type == tea.KeyEsc || key.String() == "q":
			a.state = stateMainMenu
		case key.String() == "e" && len(a.listing) > 0:
			a.setupEditSelectInput()
			a.state = stateEditSelect
		}
		return a, nil
	}
	return a, nil
}

func (a *App) setupEditSelectInput() {
	id := textinput.New()
	id.Placeholder = "task number"
	id.Focus()
	a.inputs = []textinput.Model{id}
	a.focusIndex = 0
}

func (a *App) updateEditSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			a.state = stateTaskList
			return a, nil
		case tea.KeyEnter:
			return a.pickEditTask()
		}
	}
	return a, a.updateInputs(msg)
}

func (a *App) pickEditTask() (tea.Model, tea.Cmd) {
	id, err := strconv.Atoi(strings.TrimSpace(a.inputs[0].Value()))
	if err != nil {
		a.errMsg = "Enter a task number."
		return a, nil
	}
	var picked *task.Task
	for i := range a.listing {
		if a.listing[i].ID == id {
			picked = &a.listing[i]
			break
		}
	}
	if picked == nil {
		a.errMsg = fmt.Sprintf("Task %d is not in this list.", id)
		return a, nil
	}
	// Completed and past-due tasks can't be opened in the editor; the
	// restriction lives here, not in the service.
	if picked.Completed || picked.Overdue(task.DateOf(nowFn())) {
		a.errMsg = fmt.Sprintf("Task %d is completed or overdue and can't be edited.", id)
		a.state = stateTaskList
		return a, nil
	}
	a.editing = *picked
	a.fields = editableFields(a.sess)
	a.fieldIndex = 0
	a.errMsg = ""
	a.state = stateEditField
	return a, nil
}

// editableFields lists the fields the edit menu offers for this role.
// The service re-checks permissions on submit either way.
func editableFields(sess task.Session) []string {
	fields := []string{task.FieldDescription, task.FieldDueDate, task.FieldCompleted}
	if sess.IsAdmin() {
		fields = append(fields, task.FieldOwner)
	}
	return fields
}

func (a *App) updateEditField(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q":
			a.state = stateTaskList
		case "up", "k":
			if a.fieldIndex > 0 {
				a.fieldIndex--
			}
		case "down", "j":
			if a.fieldIndex < len(a.fields)-1 {
				a.fieldIndex++
			}
		case "enter":
			a.editField = a.fields[a.fieldIndex]
			value := textinput.New()
			value.Placeholder = valuePlaceholder(a.editField)
			value.Focus()
			a.inputs = []textinput.Model{value}
			a.focusIndex = 0
			a.state = stateEditValue
		}
	}
	return a, nil
}

func valuePlaceholder(field string) string {
	switch field {
	case task.FieldDueDate:
		return "DD-MM-YYYY"
	case task.FieldCompleted:
		return "yes/no"
	case task.FieldOwner:
		return "username"
	default:
		return "new value"
	}
}

func (a *App) updateEditValue(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			a.state = stateEditField
			return a, nil
		case tea.KeyEnter:
			updated, err := a.tasks.EditTask(a.sess, a.editing.ID, a.editField, a.inputs[0].Value())
			if err != nil {
				a.errMsg = renderError(err)
				return a, nil
			}
			a.errMsg = ""
			a.statusMsg = fmt.Sprintf("Task %d updated (%s).", updated.ID, a.editField)
			a.journal.Info("%s changed %s on task %d", a.sess.User, a.editField, updated.ID)
			a.reloadListing()
			a.state = stateTaskList
			return a, nil
		}
	}
	return a, a.updateInputs(msg)
}

// reloadListing refreshes the task list after an edit.
func (a *App) reloadListing() {
	if a.listingTitle == "All tasks" {
		if all, err := a.tasks.ListAll(a.sess); err == nil {
			a.listing = all
		}
		return
	}
	a.listing = a.tasks.ListMine(a.sess)
}

// --- read-only screens (statistics, activity) ---

func (a *App) updateReadOnlyView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.Type == tea.KeyEsc || key.String() == "q" {
			a.state = stateMainMenu
		}
	}
	return a, nil
}

// --- shared input helpers ---

func (a *App) cycleFocus(backwards bool) {
	if backwards {
		a.focusIndex--
	} else {
		a.focusIndex++
	}
	if a.focusIndex >= len(a.inputs) {
		a.focusIndex = 0
	}
	if a.focusIndex < 0 {
		a.focusIndex = len(a.inputs) - 1
	}
	for i := range a.inputs {
		if i == a.focusIndex {
			a.inputs[i].Focus()
		} else {
			a.inputs[i].Blur()
		}
	}
}

func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(a.inputs))
	for i := range a.inputs {
		a.inputs[i], cmds[i] = a.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

// renderError maps the error taxonomy to the messages the screen shows.
// Errors arrive here exactly as the service and report layers returned
// them.
func renderError(err error) string {
	var validation *task.ValidationError
	switch {
	case errors.Is(err, policy.ErrPermissionDenied):
		return "You don't have permission to do that."
	case errors.Is(err, store.ErrTaskNotFound):
		return "No task with that number."
	case errors.Is(err, store.ErrUserNotFound):
		return "No such user."
	case errors.Is(err, store.ErrUserExists):
		return "That username is already taken."
	case errors.Is(err, auth.ErrBadCredentials):
		return "Incorrect username or password."
	case errors.As(err, &validation):
		return fmt.Sprintf("Invalid %s: %s.", validation.Field, validation.Reason)
	default:
		return err.Error()
	}
}
