package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/daviddao/countdown/pkg/duration"
	"github.com/daviddao/countdown/pkg/engine"
	"github.com/daviddao/countdown/pkg/model"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	inputBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3f3f46")).
			Padding(0, 1)

	inputBoxFocused = inputBox.
			BorderForeground(lipgloss.Color("#fde68a"))

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 2)

	stateColors = map[model.State]lipgloss.Color{
		model.StateIdle:    "#a1a1aa",
		model.StateRunning: "#bbf7d0",
		model.StatePaused:  "#fde68a",
		model.StateExpired: "#fca5a5",
	}

	keyOn = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d4d4d8"))

	keyOff = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#52525b"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))
)

var fieldOrder = [3]duration.Name{duration.Hours, duration.Minutes, duration.Seconds}

var fieldLabels = [3]string{"HH", "MM", "SS"}

// tuiUpdate is one observer callback forwarded to the UI.
type tuiUpdate struct {
	tr   engine.Transition
	snap engine.Snapshot
}

type tuiUpdateMsg tuiUpdate

type tuiErrMsg struct{ err error }

// tuiModel renders the engine and forwards keys to the loop. Loop calls
// run as tea.Cmds so Update never waits on the loop; all state comes back
// through the observer channel, in loop order.
type tuiModel struct {
	ctx     context.Context
	loop    *engine.Loop
	updates <-chan tuiUpdate
	snap    engine.Snapshot
	inputs  [3]textinput.Model
	focus   int
	preset  string
	err     error
}

func newTUIModel(ctx context.Context, loop *engine.Loop, updates <-chan tuiUpdate, initial engine.Snapshot, preset string) tuiModel {
	m := tuiModel{
		ctx:     ctx,
		loop:    loop,
		updates: updates,
		snap:    initial,
		preset:  preset,
	}
	for i, name := range fieldOrder {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = "0"
		ti.CharLimit = 6
		ti.Width = 6
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(initial.Duration.Field(name).String())
		m.inputs[i] = ti
	}
	m.applyFocus()
	return m
}

func (m tuiModel) Init() tea.Cmd { return m.listen() }

// listen waits for the next observer update.
func (m tuiModel) listen() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return tuiUpdateMsg(u)
	}
}

// do runs a loop call off the UI goroutine.
func (m tuiModel) do(fn func(context.Context) (engine.Snapshot, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if _, err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return tuiErrMsg{err}
		}
		return nil
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tuiUpdateMsg:
		m.snap = msg.snap
		if msg.tr.Command == model.CmdReset && msg.tr.Changed {
			m.syncInputs()
		}
		m.applyFocus()
		return m, m.listen()

	case tuiErrMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m tuiModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "enter", "s":
		// The start key doubles as resume while paused.
		if m.snap.State == model.StatePaused {
			return m, m.do(m.loop.PauseToggle)
		}
		return m, m.do(m.loop.Start)
	case " ", "p":
		return m, m.do(m.loop.PauseToggle)
	case "r":
		return m, m.do(m.loop.Reset)
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	}

	if !m.snap.Controls.InputsEnabled || !editKey(k) {
		return m, nil
	}
	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(k)
	after := m.inputs[m.focus].Value()
	if after == before {
		return m, cmd
	}
	name := fieldOrder[m.focus]
	set := m.do(func(ctx context.Context) (engine.Snapshot, error) {
		return m.loop.SetField(ctx, name, after)
	})
	return m, tea.Batch(cmd, set)
}

// editKey reports whether k may change a numeric input.
func editKey(k tea.KeyMsg) bool {
	switch k.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		return true
	case tea.KeyRunes:
		for _, r := range k.Runes {
			if !unicode.IsDigit(r) {
				return false
			}
		}
		return len(k.Runes) > 0
	}
	return false
}

func (m *tuiModel) moveFocus(delta int) {
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.applyFocus()
}

// applyFocus focuses the selected input while inputs are editable and
// blurs every input otherwise.
func (m *tuiModel) applyFocus() {
	for i := range m.inputs {
		if m.snap.Controls.InputsEnabled && i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// syncInputs copies the engine duration into the inputs.
func (m *tuiModel) syncInputs() {
	for i, name := range fieldOrder {
		m.inputs[i].SetValue(m.snap.Duration.Field(name).String())
	}
}

func (m tuiModel) View() string {
	var b strings.Builder

	title := "ct"
	if m.preset != "" {
		title += "  " + labelStyle.Render("preset "+m.preset)
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	boxes := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		style := inputBox
		if in.Focused() {
			style = inputBoxFocused
		}
		boxes[i] = lipgloss.JoinVertical(lipgloss.Center,
			labelStyle.Render(fieldLabels[i]),
			style.Render(in.View()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...) + "\n")

	clock := clockStyle.Foreground(stateColors[m.snap.State]).Render(m.snap.Text)
	b.WriteString(clock + "\n")
	b.WriteString(labelStyle.Render(string(m.snap.State)) + "\n\n")

	c := m.snap.Controls
	keys := []string{
		keyHint("enter", "Start", c.StartEnabled),
		keyHint("p", c.PauseLabel, c.PauseEnabled),
		keyHint("r", "Reset", c.ResetEnabled),
		keyHint("q", "Quit", true),
	}
	b.WriteString(strings.Join(keys, labelStyle.Render(" · ")) + "\n")

	if m.err != nil {
		b.WriteString("\n" + errStyle.Render(m.err.Error()) + "\n")
	}
	return b.String()
}

func keyHint(key, label string, enabled bool) string {
	if enabled {
		return keyOn.Render(key + " " + label)
	}
	return keyOff.Render(key + " " + label)
}

func (a *app) cmdTUI(args []string) int {
	flags := flag.NewFlagSet("tui", flag.ContinueOnError)
	df := addDurationFlags(flags)
	noHistory := flags.Bool("no-history", false, "do not record countdowns")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	d, preset, err := df.resolve(a, flags.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ct: tui: %v\n", err)
		return 2
	}

	// Anything written to stderr would tear the alternate screen.
	logger := log.New(io.Discard, "", 0)
	if a.cfg.Debug {
		f, err := tea.LogToFile(filepath.Join(filepath.Dir(a.cfg.DBPath), "tui.log"), "ct")
		if err == nil {
			defer f.Close()
			logger = log.Default()
		}
	}

	updates := make(chan tuiUpdate, 16)
	uiDone := make(chan struct{})
	opts := []engine.LoopOption{}
	if rec := a.recorder(!*noHistory, preset, logger); rec != nil {
		opts = append(opts, engine.WithObserver(rec.Observe))
	}
	opts = append(opts, engine.WithObserver(func(tr engine.Transition, s engine.Snapshot) {
		select {
		case updates <- tuiUpdate{tr, s}:
		case <-uiDone:
		}
	}))
	loop := engine.NewLoop(a.newEngine(logger), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(gctx)
	g.Go(func() error {
		if err := loop.Run(loopCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	snap, err := loop.SetDuration(loopCtx, d)
	if err != nil {
		stopLoop()
		close(uiDone)
		g.Wait()
		fmt.Fprintf(os.Stderr, "ct: tui: %v\n", err)
		return 1
	}

	p := tea.NewProgram(newTUIModel(loopCtx, loop, updates, snap, preset),
		tea.WithAltScreen(), tea.WithContext(gctx))
	g.Go(func() error {
		defer stopLoop()
		defer close(uiDone)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "ct: tui: %v\n", err)
		return 1
	}
	return 0
}
