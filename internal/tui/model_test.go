//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/countdown/internal/clock"
	"github.com/ensigniasec/countdown/internal/engine"
)

// fakeTimer records the calls the model makes.
type fakeTimer struct {
	mu         sync.Mutex
	state      engine.State
	toggles    int
	starts     int
	resets     int
	configured [][3]int
	policies   []engine.OnZeroPolicy
	calls      []string
}

func (f *fakeTimer) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeTimer) Toggle() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles++
	f.record("toggle")
}

func (f *fakeTimer) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.record("start")
}

func (f *fakeTimer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	f.record("reset")
}

func (f *fakeTimer) Configure(h, m, s int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configured = append(f.configured, [3]int{h, m, s})
	f.record("configure")
}

func (f *fakeTimer) SetPolicy(p engine.OnZeroPolicy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.policies = append(f.policies, p)
	f.record("policy")
}

func (f *fakeTimer) Snapshot() engine.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func newFake() *fakeTimer {
	return &fakeTimer{state: engine.State{
		TotalSeconds:   90,
		CurrentSeconds: 90,
		Policy:         engine.PolicyStop,
	}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// press feeds keys through Update in order.
func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func TestModel_MainKeys(t *testing.T) {
	t.Parallel()

	ft := newFake()
	m := NewModel(ft, NewSink(), nil)

	m, _ = press(t, m, runes(" "), runes(" "), runes("r"))
	assert.Equal(t, 2, ft.toggles)
	assert.Equal(t, 1, ft.resets)

	m, _ = press(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
	m, _ = press(t, m, runes("?"))
	assert.False(t, m.help.ShowAll)
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	for _, k := range []tea.KeyMsg{runes("q"), keyType(tea.KeyCtrlC)} {
		m := NewModel(newFake(), NewSink(), nil)
		m, cmd := press(t, m, k)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.quitting)
		assert.Empty(t, m.View())
	}
}

func TestModel_EditorPrefillAndClamp(t *testing.T) {
	t.Parallel()

	ft := newFake()
	m := NewModel(ft, NewSink(), nil)

	m, _ = press(t, m, runes("e"))
	require.True(t, m.editing)
	assert.Equal(t, editor{hours: 0, minutes: 1, seconds: 30, policy: engine.PolicyStop, focus: fieldHours}, m.editor)

	// Hours floor at 0, then rise.
	m, _ = press(t, m, keyType(tea.KeyDown), runes("k"), runes("k"))
	assert.Equal(t, 2, m.editor.hours)

	// Minutes cap at 59.
	m, _ = press(t, m, keyType(tea.KeyTab))
	for range 70 {
		m, _ = press(t, m, keyType(tea.KeyUp))
	}
	assert.Equal(t, engine.MaxMinutes, m.editor.minutes)

	// Seconds floor at 0.
	m, _ = press(t, m, keyType(tea.KeyRight))
	for range 40 {
		m, _ = press(t, m, runes("j"))
	}
	assert.Equal(t, 0, m.editor.seconds)

	// Policy cycles.
	m, _ = press(t, m, keyType(tea.KeyRight), keyType(tea.KeyUp))
	assert.Equal(t, engine.PolicyRestart, m.editor.policy)
	m, _ = press(t, m, keyType(tea.KeyDown), keyType(tea.KeyDown))
	assert.Equal(t, engine.PolicyStopwatch, m.editor.policy)

	// Focus wraps in both directions.
	m, _ = press(t, m, keyType(tea.KeyTab))
	assert.Equal(t, fieldHours, m.editor.focus)
	m, _ = press(t, m, keyType(tea.KeyLeft))
	assert.Equal(t, fieldPolicy, m.editor.focus)

	// Nothing reached the timer yet.
	assert.Empty(t, ft.calls)
}

func TestModel_EditorStart(t *testing.T) {
	t.Parallel()

	ft := newFake()
	var hooked []int
	m := NewModel(ft, NewSink(), nil).WithConfigureHook(func(total int) { hooked = append(hooked, total) })

	m, _ = press(t, m,
		runes("e"),
		keyType(tea.KeyTab), keyType(tea.KeyUp), // minutes 2
		keyType(tea.KeyTab), keyType(tea.KeyTab), keyType(tea.KeyUp), // policy restart
		keyType(tea.KeyEnter),
	)

	assert.False(t, m.editing)
	assert.Equal(t, [][3]int{{0, 2, 30}}, ft.configured)
	assert.Equal(t, []engine.OnZeroPolicy{engine.PolicyRestart}, ft.policies)
	assert.Equal(t, []string{"configure", "policy", "reset", "start"}, ft.calls)
	assert.Equal(t, []int{150}, hooked)
}

func TestModel_EditorTest(t *testing.T) {
	t.Parallel()

	ft := newFake()
	m := NewModel(ft, NewSink(), nil)

	m, _ = press(t, m, runes("e"), keyType(tea.KeyUp), runes("t"))

	assert.False(t, m.editing)
	assert.Equal(t, [][3]int{{1, 1, 30}}, ft.configured)
	assert.Equal(t, []string{"configure", "policy", "reset"}, ft.calls)
	assert.Zero(t, ft.starts)
}

func TestModel_EditorCancel(t *testing.T) {
	t.Parallel()

	ft := newFake()
	m := NewModel(ft, NewSink(), nil)

	m, _ = press(t, m, runes("e"), keyType(tea.KeyUp), keyType(tea.KeyEsc))
	assert.False(t, m.editing)
	assert.Empty(t, ft.calls)

	// Main keys are live again.
	_, _ = press(t, m, runes(" "))
	assert.Equal(t, 1, ft.toggles)
}

func TestModel_EditorSwallowsMainKeys(t *testing.T) {
	t.Parallel()

	ft := newFake()
	m := NewModel(ft, NewSink(), nil)

	m, cmd := press(t, m, runes("e"), runes(" "), runes("r"), runes("q"))
	assert.True(t, m.editing)
	assert.Nil(t, cmd)
	assert.Empty(t, ft.calls)
}

func TestModel_DisplayMsg(t *testing.T) {
	t.Parallel()

	m := NewModel(newFake(), NewSink(), nil)
	v := engine.View{Text: "00:42", Title: "⏰ 00:42 - Timer", Running: true, Current: 42, Total: 60, Policy: engine.PolicyStop}

	next, cmd := m.Update(displayMsg{View: v})
	require.NotNil(t, cmd)
	m = next.(Model)
	assert.Equal(t, v, m.view)
	assert.Contains(t, m.View(), "RUNNING")
	assert.Contains(t, m.View(), "00:42")
}

func TestModel_PolicyMsg(t *testing.T) {
	t.Parallel()

	ft := newFake()
	ch := make(chan engine.OnZeroPolicy, 1)
	m := NewModel(ft, NewSink(), ch)

	m, _ = press(t, m, runes("e"))
	next, cmd := m.Update(policyMsg{Policy: engine.PolicyStopwatch})
	require.NotNil(t, cmd)
	m = next.(Model)
	assert.Equal(t, []engine.OnZeroPolicy{engine.PolicyStopwatch}, ft.policies)
	assert.Equal(t, engine.PolicyStopwatch, m.editor.policy)

	ch <- engine.PolicyRestart
	assert.Equal(t, policyMsg{Policy: engine.PolicyRestart}, cmd())
}

func TestModel_NoPolicySource(t *testing.T) {
	t.Parallel()

	m := NewModel(newFake(), NewSink(), nil)
	assert.Nil(t, m.listenForPolicy())
}

func TestModel_WindowSize(t *testing.T) {
	t.Parallel()

	m := NewModel(newFake(), NewSink(), nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	m = next.(Model)
	assert.Equal(t, 26, m.progress.Width)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})
	m = next.(Model)
	assert.Equal(t, progressMaxWidth, m.progress.Width)
	assert.Equal(t, progressMinWidth, progressWidth(3))
}

func TestModel_QuitMsg(t *testing.T) {
	t.Parallel()

	m := NewModel(newFake(), NewSink(), nil)
	next, cmd := m.Update(quitMsg{Reason: ErrQuit})
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
}

func TestSink_KeepsNewest(t *testing.T) {
	t.Parallel()

	s := NewSink()
	for i := range displayBufferSize + 5 {
		s.Render(engine.View{Current: i})
	}
	require.Len(t, s.ch, displayBufferSize)

	var last engine.View
	for range displayBufferSize {
		last = <-s.ch
	}
	assert.Equal(t, displayBufferSize+4, last.Current)
}

func TestModel_DrivesRealEngine(t *testing.T) {
	t.Parallel()

	sched := clock.NewManual()
	sink := NewSink()
	eng := engine.New(engine.WithScheduler(sched), engine.WithDisplay(sink))
	t.Cleanup(eng.Close)

	m := NewModel(eng, sink, nil)
	m, _ = press(t, m, runes(" "))
	sched.Advance(2 * time.Second)

	// Drain the sink through the model the way the program would.
	for {
		msg := m.listenForDisplay()()
		next, _ := m.Update(msg)
		m = next.(Model)
		if len(sink.ch) == 0 {
			break
		}
	}
	assert.Equal(t, "00:58", m.view.Text)
	assert.True(t, m.view.Running)
	assert.Contains(t, m.View(), "RUNNING")

	m, _ = press(t, m, runes(" "))
	assert.False(t, eng.Snapshot().Running)
}

func TestElapsedFraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		view     engine.View
		expected float64
	}{
		{"fresh", engine.View{Current: 60, Total: 60}, 0},
		{"half", engine.View{Current: 30, Total: 60}, 0.5},
		{"done", engine.View{Current: 0, Total: 60}, 1},
		{"zero total", engine.View{Current: 0, Total: 0}, 0},
		{"counting up", engine.View{Current: 5, Total: 60, CountingUp: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, elapsedFraction(tt.view), 1e-9)
		})
	}
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PAUSED", statusLabel(engine.View{}))
	assert.Equal(t, "RUNNING", statusLabel(engine.View{Running: true}))
	assert.Equal(t, "COMPLETED", statusLabel(engine.View{Completed: true}))
	assert.Equal(t, "STOPWATCH", statusLabel(engine.View{Completed: true, Running: true, CountingUp: true}))
}

func TestViews(t *testing.T) {
	t.Parallel()

	m := NewModel(newFake(), NewSink(), nil)
	mainView := m.View()
	assert.Contains(t, mainView, "Countdown")
	assert.Contains(t, mainView, "01:30")
	assert.Contains(t, mainView, "PAUSED")
	assert.Contains(t, mainView, "on zero: stop")

	m, _ = press(t, m, runes("e"))
	edit := m.View()
	assert.Contains(t, edit, "Set timer")
	assert.Contains(t, edit, "[00]")
	assert.Contains(t, edit, " 01 ")
}

func TestBigText(t *testing.T) {
	t.Parallel()

	out := bigText("01:30")
	rows := strings.Split(out, "\n")
	require.Len(t, rows, glyphRows)
	// Four 3-wide digits, one 1-wide colon, four separators.
	for _, r := range rows {
		assert.Equal(t, 4*3+1+4, len([]rune(r)))
	}
	assert.Equal(t, "█▀█", string([]rune(rows[0])[:3]))
}
