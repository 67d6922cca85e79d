package widget

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	columnHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	taskTitleStyle     = lipgloss.NewStyle().Bold(true)
	assigneeStyle      = lipgloss.NewStyle().Faint(true)
	emptyStateStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	syncedStyle        = lipgloss.NewStyle().Faint(true)
)

// RenderBoard turns a resolved snapshot into the board section of the view.
// Zero resolved columns render a single empty-state line; a missing or
// malformed sync timestamp silently omits the trailing synced line.
func RenderBoard(snapshot Snapshot) string {
	var b strings.Builder

	if snapshot.Empty() {
		b.WriteString(emptyStateStyle.Render("No tasks available."))
	} else {
		for i, column := range snapshot.Columns {
			if i > 0 {
				b.WriteString("\n")
			}
			heading := fmt.Sprintf("%s (%d)", columnTitle(column), len(column.Tasks))
			b.WriteString(columnHeadingStyle.Render(heading))
			b.WriteString("\n")
			for _, task := range column.Tasks {
				b.WriteString("  " + taskTitleStyle.Render(task.Title) + "\n")
				b.WriteString("  " + assigneeStyle.Render("Assigned to "+task.Assignee) + "\n")
			}
		}
	}

	if line := formatSyncedLine(snapshot.LastSyncedAt); line != "" {
		b.WriteString("\n" + syncedStyle.Render(line))
	}

	return b.String()
}

func columnTitle(column Column) string {
	if column.Title != "" {
		return column.Title
	}
	return "Column"
}

// formatSyncedLine renders the timestamp in a short local date/time form, or
// nothing when the value does not parse.
func formatSyncedLine(isoString string) string {
	if isoString == "" {
		return ""
	}
	ts, err := time.Parse(time.RFC3339, isoString)
	if err != nil {
		ts, err = time.Parse(time.RFC3339Nano, isoString)
	}
	if err != nil {
		return ""
	}
	return "Last synced " + ts.Local().Format("Jan 2, 3:04 PM")
}
