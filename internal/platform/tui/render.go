package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/director"
	"github.com/arcadeworks/serpent/internal/game"
)

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	hudStyle = lipgloss.NewStyle().Bold(true)
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	calmStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	tenseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	stressStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	recoverStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(48)
)

// renderFrame assembles the full frame: HUD, board, optional AI panel, help.
func renderFrame(m Model) string {
	state := m.controller.Snapshot()
	feedback := m.controller.Feedback()

	view := lipgloss.JoinVertical(lipgloss.Left,
		renderHUD(state, feedback),
		boardStyle.Render(renderBoard(m.screen, state)),
	)

	// The panel needs horizontal room; drop it on narrow terminals.
	if m.showExplain && m.width >= state.Grid.Width+56 {
		view = lipgloss.JoinHorizontal(lipgloss.Top,
			view, " ", renderDecisionPanel(m.controller.Decisions()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, view, m.help.View(m.keys))
}

// renderBoard draws the grid into the screen buffer and returns it as text.
func renderBoard(screen *core.Screen, state game.State) string {
	screen.Clear()

	for i, seg := range state.Snake {
		r := 'o'
		if i == 0 {
			r = 'O'
		}
		screen.Set(seg.Position.X, seg.Position.Y, r)
	}
	screen.Set(state.Food.X, state.Food.Y, '*')

	switch state.Status {
	case game.StatusInit:
		drawCentered(screen, "Press any arrow to start")
	case game.StatusPaused:
		drawCentered(screen, "Paused - p to resume")
	case game.StatusGameOver:
		drawCentered(screen, fmt.Sprintf("Game over - score %d - r to restart", state.Score))
	}

	return screen.String()
}

func drawCentered(screen *core.Screen, text string) {
	x := (screen.Width() - len(text)) / 2
	screen.WriteString(max(x, 0), screen.Height()/2, text)
}

// renderHUD draws the score line plus the adaptation feedback: a stress bar
// tinted by level and a badge for the last AI adjustment.
func renderHUD(state game.State, fb director.VisualFeedback) string {
	score := hudStyle.Render(fmt.Sprintf(" Score %d", state.Score))
	speed := dimStyle.Render(fmt.Sprintf("  speed ×%.2f  %s", state.Speed, state.Status))

	bar := stressBar(fb.StressLevel)
	badge := ""
	switch fb.AdjustmentType {
	case director.AdjustSpeed:
		badge = tenseStyle.Render("  [speed]")
	case director.AdjustDifficulty:
		badge = tenseStyle.Render("  [difficulty]")
	case director.AdjustRecovery:
		badge = recoverStyle.Render("  [recovery]")
	}

	return score + speed + "  " + bar + badge
}

// stressBar renders a five-segment bar colored by stress level.
func stressBar(level float64) string {
	filled := int(level*5 + 0.5)
	bar := strings.Repeat("▮", core.Clamp(filled, 0, 5)) +
		strings.Repeat("▯", core.Clamp(5-filled, 0, 5))

	style := calmStyle
	switch {
	case level > 0.7:
		style = stressStyle
	case level > 0.4:
		style = tenseStyle
	}
	return style.Render(bar)
}

// renderDecisionPanel shows the most recent director decisions, newest first.
func renderDecisionPanel(decisions []director.Decision) string {
	var sb strings.Builder
	sb.WriteString(hudStyle.Render("AI decisions"))
	sb.WriteString("\n")

	const show = 8
	start := max(len(decisions)-show, 0)
	recent := decisions[start:]
	if len(recent) == 0 {
		sb.WriteString(dimStyle.Render("no decisions yet"))
	}
	for i := len(recent) - 1; i >= 0; i-- {
		d := recent[i]
		sb.WriteString(dimStyle.Render(d.Timestamp.Format("15:04:05")))
		sb.WriteString(fmt.Sprintf(" %s\n  %s\n", d.Type, d.Reasoning))
	}

	return panelStyle.Render(sb.String())
}
