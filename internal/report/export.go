// internal/report/export.go
//
// Report file generation: task_overview and user_overview text files,
// plus a PDF rendering of the task overview.

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/PedroCPaez/task-manager/internal/task"
)

const (
	taskOverviewName = "task_overview.txt"
	userOverviewName = "user_overview.txt"
	taskPDFName      = "task_overview.pdf"
)

// WriteFiles generates a report and writes the overview files into dir.
// Formats selects the outputs ("text", "pdf"); empty means all. It
// returns the paths written. Admin only, same as Generate.
func (e *Engine) WriteFiles(sess task.Session, dir string, formats []string) ([]string, error) {
	r, err := e.Generate(sess)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		formats = []string{"text", "pdf"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: ensure report dir: %w", err)
	}

	var written []string
	for _, format := range formats {
		switch format {
		case "text":
			taskPath := filepath.Join(dir, taskOverviewName)
			if err := os.WriteFile(taskPath, []byte(TaskOverview(r)), 0o644); err != nil {
				return nil, fmt.Errorf("report: write %s: %w", taskPath, err)
			}
			userPath := filepath.Join(dir, userOverviewName)
			if err := os.WriteFile(userPath, []byte(UserOverview(r)), 0o644); err != nil {
				return nil, fmt.Errorf("report: write %s: %w", userPath, err)
			}
			written = append(written, taskPath, userPath)
		case "pdf":
			pdfPath := filepath.Join(dir, taskPDFName)
			if err := writePDF(r, pdfPath); err != nil {
				return nil, err
			}
			written = append(written, pdfPath)
		default:
			return nil, fmt.Errorf("report: unknown format %q", format)
		}
	}
	return written, nil
}

// TaskOverview renders the overall totals as the task_overview file body.
func TaskOverview(r Report) string {
	var b strings.Builder
	b.WriteString("Task Overview\n\n")
	fmt.Fprintf(&b, "Total number of tasks:                  %d\n", r.Total)
	fmt.Fprintf(&b, "Total number of tasks completed:        %d\n", r.Completed)
	fmt.Fprintf(&b, "Total number of tasks uncompleted:      %d\n", r.Uncompleted)
	fmt.Fprintf(&b, "Percentage of tasks uncompleted:        %d%%\n", Percent(r.Uncompleted, r.Total))
	fmt.Fprintf(&b, "Tasks uncompleted and overdue:          %d\n", r.Overdue)
	fmt.Fprintf(&b, "Percentage of tasks overdue:            %d%%\n", Percent(r.Overdue, r.Total))
	return b.String()
}

// UserOverview renders the per-user breakdown as the user_overview file
// body.
func UserOverview(r Report) string {
	var b strings.Builder
	b.WriteString("User Statistics\n\n")
	fmt.Fprintf(&b, "Total number of users:  %d\n", r.TotalUsers)
	fmt.Fprintf(&b, "Total number of tasks:  %d\n", r.Total)
	for _, username := range r.UserOrder {
		stats := r.Users[username]
		fmt.Fprintf(&b, "\nUsername:                                %s\n", username)
		fmt.Fprintf(&b, "Total tasks assigned:                    %d\n", stats.Assigned)
		fmt.Fprintf(&b, "Percentage of all tasks:                 %d%%\n", Percent(stats.Assigned, r.Total))
		fmt.Fprintf(&b, "Tasks completed:                         %d\n", stats.Completed)
		fmt.Fprintf(&b, "Percentage of assigned completed:        %d%%\n", Percent(stats.Completed, stats.Assigned))
		fmt.Fprintf(&b, "Tasks uncompleted:                       %d\n", stats.Uncompleted)
		fmt.Fprintf(&b, "Percentage of assigned uncompleted:      %d%%\n", Percent(stats.Uncompleted, stats.Assigned))
		fmt.Fprintf(&b, "Tasks uncompleted and overdue:           %d\n", stats.Overdue)
		fmt.Fprintf(&b, "Percentage of assigned overdue:          %d%%\n", Percent(stats.Overdue, stats.Assigned))
	}
	return b.String()
}

func writePDF(r Report, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Overview")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Generated %s", r.Today), "0", "L", false)
	pdf.Ln(4)
	for _, line := range strings.Split(strings.TrimSpace(TaskOverview(r)), "\n") {
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}
	pdf.Ln(4)
	for _, username := range r.UserOrder {
		stats := r.Users[username]
		line := fmt.Sprintf("%s: assigned=%d completed=%d uncompleted=%d overdue=%d",
			username, stats.Assigned, stats.Completed, stats.Uncompleted, stats.Overdue)
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
