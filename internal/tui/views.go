// internal/tui/views.go
//
// View rendering for each screen. Everything returns a plain string;
// lipgloss handles color and emphasis.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PedroCPaez/task-manager/internal/task"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	lateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
)

// View renders the current screen.
func (a *App) View() string {
	var body string
	switch a.state {
	case stateLogin:
		body = a.viewLogin()
	case stateMainMenu:
		body = a.menu.View()
	case stateAddTask:
		body = a.viewForm("Add a task", "enter: next/submit · esc: back")
	case stateRegister:
		body = a.viewForm("Register a user", "enter: next/submit · esc: back")
	case stateTaskList:
		body = a.viewTaskList()
	case stateEditSelect:
		body = a.viewForm("Edit which task?", "enter: select · esc: back")
	case stateEditField:
		body = a.viewFieldMenu()
	case stateEditValue:
		body = a.viewForm(fmt.Sprintf("New %s for task %d", a.editField, a.editing.ID), "enter: apply · esc: back")
	case stateStats:
		body = titleStyle.Render("Statistics") + "\n\n" + a.statsBody + "\n" + hintStyle.Render("q: back")
	case stateActivity:
		body = titleStyle.Render("Recent activity") + "\n\n" + a.activityBody + "\n\n" + hintStyle.Render("q: back")
	}

	var footer []string
	if a.statusMsg != "" {
		footer = append(footer, okStyle.Render(a.statusMsg))
	}
	if a.errMsg != "" {
		footer = append(footer, errStyle.Render(a.errMsg))
	}
	if len(footer) == 0 {
		return body + "\n"
	}
	return body + "\n\n" + strings.Join(footer, "\n") + "\n"
}

func (a *App) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TASK MANAGER — Please log in"))
	b.WriteString("\n\n")
	for i := range a.inputs {
		b.WriteString(a.inputs[i].View())
		if i < len(a.inputs)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("enter: next/login · esc: quit"))
	return b.String()
}

func (a *App) viewForm(title, hints string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	for i := range a.inputs {
		b.WriteString(a.inputs[i].View())
		if i < len(a.inputs)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render(hints))
	return b.String()
}

func (a *App) viewTaskList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.listingTitle))
	b.WriteString("\n\n")
	if len(a.listing) == 0 {
		b.WriteString(labelStyle.Render("No tasks to show."))
	} else {
		today := task.DateOf(nowFn())
		for _, t := range a.listing {
			b.WriteString(renderTask(t, today))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("e: edit a task · q: back"))
	return b.String()
}

// renderTask formats one task record as a block of labeled lines.
func renderTask(t task.Task, today task.Date) string {
	status := "No"
	style := labelStyle
	if t.Completed {
		status = "Yes"
		style = doneStyle
	} else if t.Overdue(today) {
		status = "No (overdue)"
		style = lateStyle
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", headerStyle.Render("Task"), t.ID)
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("Assigned to:"), t.Owner)
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("Description:"), t.Description)
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("Due date:   "), t.Due)
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("Completed:  "), style.Render(status))
	return b.String()
}

func (a *App) viewFieldMenu() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(fmt.Sprintf("Edit task %d", a.editing.ID)))
	for i, field := range a.fields {
		cursor := "  "
		if i == a.fieldIndex {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%s\n", cursor, field)
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("up/down: choose · enter: select · esc: back"))
	return b.String()
}
