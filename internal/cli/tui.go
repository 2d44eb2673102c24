package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/situationroom/pkg/registry"
	"github.com/matzehuels/situationroom/pkg/widget"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// WidgetPickerModel - Interactive widget type selection
// =============================================================================

// WidgetPickerModel is the bubbletea model for choosing a widget type.
type WidgetPickerModel struct {
	Widgets  []registry.Metadata
	Cursor   int
	Selected *widget.Type
}

// NewWidgetPickerModel creates a picker over the given metadata.
func NewWidgetPickerModel(metas []registry.Metadata) WidgetPickerModel {
	return WidgetPickerModel{Widgets: metas}
}

func (m WidgetPickerModel) Init() tea.Cmd {
	return nil
}

func (m WidgetPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Widgets)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Widgets) == 0 {
				return m, tea.Quit
			}
			t := m.Widgets[m.Cursor].Type
			m.Selected = &t
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m WidgetPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Add Widget"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Widgets))
	for i, meta := range m.Widgets {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, meta.DisplayName, meta.Category, meta.Description})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "Widget", "Category", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case row == m.Cursor:
				return listSelectedStyle
			case col >= 2:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Widgets))))

	return b.String()
}

// pickWidgetType runs the picker and returns the chosen type, or false if
// the user quit without choosing.
func pickWidgetType(metas []registry.Metadata) (widget.Type, bool, error) {
	final, err := tea.NewProgram(NewWidgetPickerModel(metas)).Run()
	if err != nil {
		return "", false, err
	}
	m := final.(WidgetPickerModel)
	if m.Selected == nil {
		return "", false, nil
	}
	return *m.Selected, true, nil
}
