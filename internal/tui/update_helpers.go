package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey processes main screen key bindings.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.timer.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.timer.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		st := m.timer.Snapshot()
		m.editor = newEditor(st.TotalSeconds, st.Policy)
		m.editing = true
		return m, nil
	}

	return m, nil
}

// handleEditorKey processes key bindings while the edit modal is open.
func (m Model) handleEditorKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.editorKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.editorKeys.Cancel):
		m.editing = false

	case key.Matches(msg, m.editorKeys.Next):
		m.editor.next()

	case key.Matches(msg, m.editorKeys.Prev):
		m.editor.prev()

	case key.Matches(msg, m.editorKeys.Up):
		m.editor.increase()

	case key.Matches(msg, m.editorKeys.Down):
		m.editor.decrease()

	case key.Matches(msg, m.editorKeys.Start):
		m.applyEditor()
		m.timer.Start()
		m.editing = false

	case key.Matches(msg, m.editorKeys.Test):
		m.applyEditor()
		m.editing = false
	}

	return m, nil
}

// applyEditor configures the timer from the modal and rewinds it.
func (m *Model) applyEditor() {
	ed := m.editor
	m.timer.Configure(ed.hours, ed.minutes, ed.seconds)
	m.timer.SetPolicy(ed.policy)
	m.timer.Reset()
	if m.onConfigure != nil {
		m.onConfigure(ed.totalSeconds())
	}
}
