// Package tui provides the Bubble Tea integration: the terminal UI loop,
// key-to-input mapping, and SSH serving via Wish. It is the input and
// rendering collaborator around the core; all game and adaptation logic
// lives behind the runtime controller.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/game"
	"github.com/arcadeworks/serpent/internal/runtime"
)

// TickMsg is sent to trigger one frame of simulation.
type TickMsg time.Time

// tickCmd returns a command sending tick messages at the given rate.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Model is the Bubble Tea model running one game instance.
type Model struct {
	controller *runtime.Controller
	keys       KeyMap
	help       help.Model
	screen     *core.Screen
	fps        int

	width       int
	height      int
	lastTick    time.Time
	showExplain bool
	quitting    bool
}

// NewModel creates a model around an already-wired controller. The screen
// buffer matches the game grid; terminal size only affects layout.
func NewModel(controller *runtime.Controller, fps int) Model {
	grid := controller.Snapshot().Grid
	return Model{
		controller: controller,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		screen:     core.NewScreen(grid.Width, grid.Height),
		fps:        fps,
		width:      80,
		height:     24,
	}
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.controller.Start()
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

// handleKey maps key presses to directional inputs and discrete actions.
// Directional keys carry a timestamp so the profiler can derive latency.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.controller.HandleInput(core.DirUp, now)
	case key.Matches(msg, m.keys.Down):
		m.controller.HandleInput(core.DirDown, now)
	case key.Matches(msg, m.keys.Left):
		m.controller.HandleInput(core.DirLeft, now)
	case key.Matches(msg, m.keys.Right):
		m.controller.HandleInput(core.DirRight, now)
	case key.Matches(msg, m.keys.Pause):
		m.controller.TogglePause()
	case key.Matches(msg, m.keys.Restart):
		if m.controller.Status() == game.StatusGameOver {
			m.controller.Restart()
		}
	case key.Matches(msg, m.keys.Explain):
		m.showExplain = !m.showExplain
	}

	return m, nil
}

// handleTick advances the simulation by the real elapsed time since the
// previous tick, so a slow terminal never speeds up or slows down the game.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	dt := time.Second / time.Duration(max(m.fps, 1))
	if !m.lastTick.IsZero() {
		dt = t.Sub(m.lastTick)
	}
	m.lastTick = t

	m.controller.Tick(dt)
	return m, tickCmd(m.fps)
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return renderFrame(m)
}

// Run starts the Bubble Tea program for a locally played game.
func Run(controller *runtime.Controller, fps int) error {
	p := tea.NewProgram(
		NewModel(controller, fps),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
