package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ensigniasec/countdown/internal/engine"
)

// Timer is the part of the engine the TUI drives.
type Timer interface {
	Toggle()
	Start()
	Reset()
	Configure(hours, minutes, seconds int)
	SetPolicy(p engine.OnZeroPolicy)
	Snapshot() engine.State
}

// Model is the root Bubble Tea model.
type Model struct {
	timer Timer
	view  engine.View

	width    int
	height   int
	quitting bool

	// inbound messages from the engine and config bridges
	displayCh <-chan engine.View
	policyCh  <-chan engine.OnZeroPolicy

	// edit modal
	editing bool
	editor  editor

	// onConfigure is told about durations chosen in the modal.
	onConfigure func(totalSeconds int)

	progress   progress.Model
	help       help.Model
	keys       keyMap
	editorKeys editorKeyMap
}

// NewModel constructs a Model showing the timer's current state. policyCh may
// be nil.
func NewModel(timer Timer, sink *Sink, policyCh <-chan engine.OnZeroPolicy) Model {
	p := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	p.Width = progressMaxWidth
	return Model{
		timer:      timer,
		view:       timer.Snapshot().View(),
		displayCh:  sink.updates(),
		policyCh:   policyCh,
		progress:   p,
		help:       help.New(),
		keys:       newKeyMap(),
		editorKeys: newEditorKeyMap(),
	}
}

// WithConfigureHook returns a copy of m that calls fn with each duration
// applied from the edit modal.
func (m Model) WithConfigureHook(fn func(totalSeconds int)) Model {
	m.onConfigure = fn
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(m.view.Title),
		m.listenForDisplay(),
		m.listenForPolicy(),
	)
}

// listenForDisplay returns a Tea command that waits for the next engine refresh.
func (m Model) listenForDisplay() tea.Cmd {
	return func() tea.Msg {
		v, ok := <-m.displayCh
		if !ok {
			return quitMsg{Reason: ErrQuit}
		}
		return displayMsg{View: v}
	}
}

// listenForPolicy returns a Tea command that waits for an external policy
// change. It is nil when no source was wired.
func (m Model) listenForPolicy() tea.Cmd {
	if m.policyCh == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-m.policyCh
		if !ok {
			return nil
		}
		return policyMsg{Policy: p}
	}
}
