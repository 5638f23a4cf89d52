package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/countdown/internal/engine"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderHeader())
	b.WriteString("\n\n")
	if m.editing {
		b.WriteString(renderEditor(m.editor))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.editorKeys))
	} else {
		b.WriteString(renderTimer(m))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
	}

	content := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func renderHeader() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("Countdown")
}

func renderTimer(m Model) string {
	v := m.view
	clockStyle := lipgloss.NewStyle().Bold(true).Foreground(statusColor(v))

	var b strings.Builder
	b.WriteString(clockStyle.Render(bigText(v.Text)))
	b.WriteString("\n\n")
	b.WriteString(clockStyle.Render(v.Text))
	b.WriteString("  ")
	b.WriteString(statusBadge(v))
	b.WriteString(" ")
	b.WriteString(policyBadge(v.Policy))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(elapsedFraction(v)))
	return b.String()
}

// elapsedFraction is the share of the countdown already spent. The bar is
// full while counting up.
func elapsedFraction(v engine.View) float64 {
	if v.CountingUp {
		return 1
	}
	if v.Total <= 0 {
		return 0
	}
	f := float64(v.Total-v.Current) / float64(v.Total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

func statusLabel(v engine.View) string {
	switch {
	case v.CountingUp:
		return "STOPWATCH"
	case v.Completed && !v.Running:
		return "COMPLETED"
	case v.Running:
		return "RUNNING"
	default:
		return "PAUSED"
	}
}

func statusColor(v engine.View) lipgloss.Color {
	switch statusLabel(v) {
	case "STOPWATCH":
		return lipgloss.Color("69")
	case "COMPLETED":
		return lipgloss.Color("196")
	case "RUNNING":
		return lipgloss.Color("46")
	default:
		return lipgloss.Color("208")
	}
}

func statusBadge(v engine.View) string {
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(statusColor(v)).Render(statusLabel(v))
}

func policyBadge(p engine.OnZeroPolicy) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("on zero: " + string(p))
}

func renderEditor(ed editor) string {
	field := func(f editorField, text string) string {
		if ed.focus == f {
			return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).Render("[" + text + "]")
		}
		return " " + text + " "
	}

	duration := strings.Join([]string{
		field(fieldHours, fmt.Sprintf("%02d", ed.hours)),
		field(fieldMinutes, fmt.Sprintf("%02d", ed.minutes)),
		field(fieldSeconds, fmt.Sprintf("%02d", ed.seconds)),
	}, ":")

	content := []string{
		"Set timer",
		"",
		" HH   MM   SS",
		duration,
		"",
		"On zero: " + field(fieldPolicy, string(ed.policy)),
	}
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("69"))
	return border.Render(strings.Join(content, "\n"))
}
