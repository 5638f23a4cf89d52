package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.progress.Width = progressWidth(x.Width)
		m.help.Width = x.Width
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.editing {
			m, cmd = m.handleEditorKey(x)
		} else {
			m, cmd = m.handleKey(x)
		}
		return m, cmd

	case displayMsg:
		m.view = x.View
		return m, tea.Batch(tea.SetWindowTitle(x.View.Title), m.listenForDisplay())

	case policyMsg:
		m.timer.SetPolicy(x.Policy)
		if m.editing {
			m.editor.policy = x.Policy
		}
		return m, m.listenForPolicy()

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// progressWidth fits the bar to the terminal, within fixed bounds.
func progressWidth(termWidth int) int {
	w := termWidth - 4
	if w > progressMaxWidth {
		w = progressMaxWidth
	}
	if w < progressMinWidth {
		w = progressMinWidth
	}
	return w
}
