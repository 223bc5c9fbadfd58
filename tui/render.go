package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"todo-app/model"
	"todo-app/viewport"
)

func (m *Model) View() string {
	if !m.loaded || m.width == 0 || m.height == 0 {
		return "loading..."
	}

	w := m.viewportWidth()
	var body string
	if m.showHelp {
		overlay := lipgloss.NewStyle().MaxHeight(m.vp.Height).Render(m.renderHelpOverlay(w))
		body = lipgloss.Place(w, m.vp.Height, lipgloss.Center, lipgloss.Center, overlay)
	} else {
		body = m.withStickyHeader(m.vp.View(), w)
	}

	parts := []string{
		body,
		ruleStyle.Render(strings.Repeat("─", w)),
		m.input.View(),
	}
	parts = append(parts, m.renderBottom(w, m.height-m.animatedHeight())...)
	return strings.Join(parts, "\n")
}

// renderBottom fills the rows below the container: the key drawer while it
// is on screen, the footer otherwise. The drawer rises from the bottom edge,
// so its top rows appear first.
func (m *Model) renderBottom(width, rows int) []string {
	if rows <= 0 {
		return nil
	}
	out := make([]string, 0, rows)
	if m.inputFocused || m.coord.Phase() != viewport.PhaseHidden {
		drawer := strings.Split(m.renderDrawer(width), "\n")
		visible := min(rows, len(drawer))
		for i := 0; i < rows-visible; i++ {
			out = append(out, "")
		}
		return append(out, drawer[:visible]...)
	}
	for i := 0; i < rows-footerHeight; i++ {
		out = append(out, "")
	}
	return append(out, m.renderFooter(width))
}

func (m *Model) drawerHeight() int {
	return lipgloss.Height(m.renderDrawer(m.viewportWidth()))
}

func (m *Model) renderDrawer(width int) string {
	hints := m.help.FullHelpView(m.keys.inputHelp())
	inner := max(1, width-drawerStyle.GetHorizontalBorderSize())
	return drawerStyle.Width(inner).Render(hints)
}

// renderContent renders everything that scrolls: title, header and rows.
func (m *Model) renderContent(width int) string {
	lines := []string{
		lipgloss.PlaceHorizontal(width, lipgloss.Center, titleStyle.Render("todos")),
		"",
		m.renderHeader(width),
	}
	lines = append(lines, m.renderRows(width)...)
	return strings.Join(lines, "\n")
}

// withStickyHeader pins the header to the top of the scroll block once the
// user has scrolled past it.
func (m *Model) withStickyHeader(view string, width int) string {
	if m.vp.YOffset <= headerTop {
		return view
	}
	lines := strings.Split(view, "\n")
	header := strings.Split(m.renderHeader(width), "\n")
	if len(lines) < len(header) {
		return view
	}
	copy(lines, header)
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeader(width int) string {
	items := m.svc.Items()
	active := model.ActiveCount(items)

	status := "Done"
	if active > 0 {
		status = fmt.Sprintf("%d left", active)
	}
	statusLine := spread(width, headerStyle.Render(status), headerStyle.Render("Clear complete"))

	toggle := toggleOffStyle.Render("❯")
	if m.svc.AllComplete() {
		toggle = toggleOnStyle.Render("❯")
	}
	filters := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == m.svc.Filter() {
			filters = append(filters, filterActiveStyle.Render(f.Label()))
			continue
		}
		filters = append(filters, filterStyle.Render(f.Label()))
	}
	tabs := strings.Join(filters, "  ")
	filterLine := toggle + lipgloss.PlaceHorizontal(max(0, width-lipgloss.Width(toggle)), lipgloss.Center, tabs)

	return strings.Join([]string{
		statusLine,
		filterLine,
		ruleStyle.Render(strings.Repeat("─", width)),
	}, "\n")
}

func (m *Model) renderRows(width int) []string {
	items := m.svc.Visible()
	if len(items) == 0 {
		return []string{lipgloss.PlaceHorizontal(width, lipgloss.Center, emptyStyle.Render("no result"))}
	}

	rows := make([]string, 0, len(items))
	for i, it := range items {
		selected := i == m.cursor && !m.inputFocused
		pointer := "  "
		if selected {
			pointer = "› "
		}
		check := "[ ]"
		if it.Complete {
			check = "[x]"
		}
		suffix := ""
		if selected {
			suffix = " " + deleteHintStyle.Render("×")
		}
		if m.editingID == it.ID {
			suffix = " ✎"
		}
		room := width - utf8.RuneCountInString(pointer+check+" ") - lipgloss.Width(suffix)
		title := truncateRunes(it.Title, room)

		style := rowStyle
		switch {
		case it.Complete:
			style = rowCompleteStyle
		case selected:
			style = rowSelectedStyle
		}
		rows = append(rows, pointer+check+" "+style.Render(title)+suffix)
	}
	return rows
}

func (m *Model) renderFooter(width int) string {
	left := strings.TrimSpace(m.status)
	if left == "" {
		left = "Ready"
	}
	style := statusStyle
	if m.statusErr {
		style = statusErrStyle
	}
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		right = hintStyle.Render("esc/? close help")
	}

	rightW := lipgloss.Width(right)
	if utf8.RuneCountInString(left)+rightW+1 > width {
		left = truncateRunes(left, max(8, width-rightW-1))
	}
	line := spread(width, style.Render(left), right)
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func (m *Model) renderHelpOverlay(width int) string {
	popupW := clamp(width-8, 40, 96)
	if popupW > width {
		popupW = width
	}
	title := lipgloss.NewStyle().Bold(true).Render("Keys")
	body := m.help.FullHelpView(m.keys.FullHelp())
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("244")).
		Padding(1, 2)
	return style.Width(max(1, popupW-style.GetHorizontalBorderSize())).Render(title + "\n\n" + body)
}

func (m *Model) viewportWidth() int {
	if m.width <= 0 {
		return 1
	}
	// Leave the last column free; some terminals wrap on it.
	if m.width > 1 {
		return m.width - 1
	}
	return m.width
}

// spread places left and right at the edges of a line of width cells.
func spread(width int, left, right string) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
