package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/countdown/internal/engine"
)

// Sink is an engine.Display that forwards refreshes to the TUI. Render never
// blocks: when the buffer is full the oldest queued refresh is discarded.
type Sink struct {
	ch chan engine.View
}

// NewSink returns a Sink with a small buffer.
func NewSink() *Sink {
	return &Sink{ch: make(chan engine.View, displayBufferSize)}
}

// Render implements engine.Display.
func (s *Sink) Render(v engine.View) {
	select {
	case s.ch <- v:
		return
	default:
	}
	// Full: make room for the newest refresh.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- v:
	default:
	}
}

func (s *Sink) updates() <-chan engine.View { return s.ch }

// Options configures Run.
type Options struct {
	// StartImmediately starts the countdown before the first frame.
	StartImmediately bool
	// Policies delivers on-zero policies chosen outside the TUI.
	Policies <-chan engine.OnZeroPolicy
	// OnConfigure is called with each duration applied from the edit modal.
	OnConfigure func(totalSeconds int)
}

// Run starts the Bubble Tea TUI program and blocks until the user quits or
// ctx is cancelled. The timer must render to sink.
func Run(ctx context.Context, timer Timer, sink *Sink, opts Options) error {
	model := NewModel(timer, sink, opts.Policies).WithConfigureHook(opts.OnConfigure)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	if opts.StartImmediately {
		timer.Start()
	}

	// Run TUI blocking in this goroutine.
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
