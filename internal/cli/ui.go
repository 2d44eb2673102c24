package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	"github.com/matzehuels/situationroom/pkg/grid"
	"github.com/matzehuels/situationroom/pkg/registry"
	"github.com/matzehuels/situationroom/pkg/share"
	"github.com/matzehuels/situationroom/pkg/widget"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// widgetColors cycles through the grid preview's widget fills.
var widgetColors = []lipgloss.Color{
	lipgloss.Color("36"),
	lipgloss.Color("75"),
	lipgloss.Color("220"),
	lipgloss.Color("170"),
	lipgloss.Color("35"),
	lipgloss.Color("209"),
	lipgloss.Color("141"),
	lipgloss.Color("167"),
}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder  = lipgloss.NewStyle().Foreground(colorDim)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconActive  = "●"
	iconEmpty   = "·"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// renderWidgetTypes renders registered widget metadata.
func renderWidgetTypes(metas []registry.Metadata) string {
	t := newTable("Type", "Code", "Name", "Category", "Description")
	for _, m := range metas {
		t.Row(string(m.Type), share.Abbreviate(m.Type), m.DisplayName, m.Category, m.Description)
	}
	return t.Render()
}

// renderDashboards renders the dashboard list, marking the active one.
func renderDashboards(st dashboard.State) string {
	active := ""
	if st.ActiveDashboardID != nil {
		active = *st.ActiveDashboardID
	}
	t := newTable("", "ID", "Name", "Widgets", "Grid", "Updated")
	for _, d := range st.Dashboards {
		mark := ""
		if d.ID == active {
			mark = iconActive
		}
		t.Row(mark, d.ID, d.Name, strconv.Itoa(len(d.Widgets)),
			fmt.Sprintf("%dx%d", d.Settings.GridCols, d.Settings.GridRows),
			d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return t.Render()
}

// renderWidgets renders a dashboard's widget instances.
func renderWidgets(d dashboard.Dashboard) string {
	t := newTable("ID", "Type", "Title", "Position", "Size")
	for _, in := range d.Widgets {
		b := in.Config.Common()
		t.Row(in.ID(), string(b.Type), b.Title,
			fmt.Sprintf("%d,%d", in.Layout.X, in.Layout.Y),
			fmt.Sprintf("%dx%d", in.Layout.W, in.Layout.H))
	}
	return t.Render()
}

// =============================================================================
// Grid Preview
// =============================================================================

// previewLabel returns the single-character label of the i-th widget.
func previewLabel(i int) string {
	const labels = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	if i < len(labels) {
		return string(labels[i])
	}
	return "#"
}

// renderGrid draws the dashboard's cell matrix with one label per widget
// followed by a legend. Rows past the configured grid are drawn when a
// widget overflows it.
func renderGrid(d dashboard.Dashboard) string {
	b := d.Bounds()
	rows := b.Rows
	for _, in := range d.Widgets {
		rows = max(rows, in.Layout.Rect().Bottom())
	}
	owner := make([][]int, rows)
	for y := range owner {
		owner[y] = make([]int, b.Cols)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}
	for i, in := range d.Widgets {
		r := in.Layout.Rect()
		for y := max(r.Y, 0); y < r.Bottom() && y < rows; y++ {
			for x := max(r.X, 0); x < r.Right() && x < b.Cols; x++ {
				owner[y][x] = i
			}
		}
	}

	var sb strings.Builder
	for y, line := range owner {
		for _, i := range line {
			if i < 0 {
				sb.WriteString(StyleDim.Render(iconEmpty))
				continue
			}
			style := lipgloss.NewStyle().Foreground(widgetColors[i%len(widgetColors)])
			sb.WriteString(style.Render(previewLabel(i)))
		}
		if y == b.Rows-1 && rows > b.Rows {
			sb.WriteString(StyleDim.Render("  ← grid end"))
		}
		sb.WriteString("\n")
	}

	occ := grid.NewOccupancy(widget.Rects(d.Layouts()), b)
	free := 0
	for _, line := range occ {
		for _, used := range line {
			if !used {
				free++
			}
		}
	}

	sb.WriteString("\n")
	for i, in := range d.Widgets {
		base := in.Config.Common()
		style := lipgloss.NewStyle().Foreground(widgetColors[i%len(widgetColors)])
		fmt.Fprintf(&sb, "%s %s %s\n", style.Render(previewLabel(i)), base.Title, StyleDim.Render("("+string(base.Type)+")"))
	}
	fmt.Fprintf(&sb, "%s", StyleDim.Render(fmt.Sprintf("%dx%d grid, %d free cells", b.Cols, b.Rows, free)))
	return sb.String()
}
