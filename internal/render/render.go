// Package render formats aggregated items for terminal output.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"timeTracker/internal/models/item"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	doneStyle    = lipgloss.NewStyle().Faint(true)
)

var itemHeaders = []string{"ID", "STATUS", "ELAPSED", "TEXT", "TAGS", "LISTS"}

// FormatElapsed formats a duration as H:MM:SS, hours are not capped at 24.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

// Items renders one line per view. With styled=false the output has no ANSI codes.
func Items(views []item.View, now time.Time, styled bool) string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		status := v.Status.String()
		if v.Running() {
			status += " *"
		}
		row := []string{
			strconv.FormatInt(v.ID, 10),
			status,
			FormatElapsed(v.Elapsed(now)),
			v.Text,
			tagNames(v.Tags),
			listNames(v.Lists),
		}
		if styled {
			switch {
			case v.Running():
				row[1] = runningStyle.Render(row[1])
				row[2] = runningStyle.Render(row[2])
			case v.Status == item.StatusDone:
				row[3] = doneStyle.Render(row[3])
			}
		}
		rows = append(rows, row)
	}

	headers := itemHeaders
	if styled {
		headers = make([]string, len(itemHeaders))
		for i, h := range itemHeaders {
			headers[i] = headerStyle.Render(h)
		}
	}
	return table(headers, rows)
}

func tagNames(tags []item.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = "#" + t.Text
	}
	return strings.Join(names, " ")
}

func listNames(lists []item.List) string {
	names := make([]string, len(lists))
	for i, l := range lists {
		names[i] = l.Name
	}
	return strings.Join(names, ", ")
}

func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
		}
		b.WriteByte('\n')
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
