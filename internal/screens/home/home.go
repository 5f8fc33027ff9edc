package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syllogiz/internal/router"
	"github.com/abhisek/syllogiz/internal/screen"
	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/ui/components"
	"github.com/abhisek/syllogiz/internal/ui/layout"
	"github.com/abhisek/syllogiz/internal/ui/theme"
)

const titleFull = `╔═╗╦ ╦╦  ╦  ╔═╗╔═╗╦╔═╗
╚═╗╚╦╝║  ║  ║ ║║ ╦║╔═╝
╚═╝ ╩ ╩═╝╩═╝╚═╝╚═╝╩╚═╝`

const titleCompact = "S · Y · L · L · O · G · I · Z"

// DrillFactory builds the drill screen for a mode.
type DrillFactory func(mode session.Mode) screen.Screen

// progressMsg carries a freshly loaded progress document.
type progressMsg struct {
	progress session.Progress
	err      error
}

// HomeScreen is the landing screen: mode menu plus a progress card.
type HomeScreen struct {
	menu         components.Menu
	loadProgress session.ProgressLoader
	progress     session.Progress
	progressErr  error
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates the home screen. loadProgress may be nil.
func New(newDrill DrillFactory, loadProgress session.ProgressLoader) *HomeScreen {
	start := func(mode session.Mode) func() tea.Cmd {
		return func() tea.Cmd {
			if newDrill == nil {
				return nil
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: newDrill(mode)}
			}
		}
	}

	items := []components.MenuItem{
		{Label: "MICRO DRILL", Hint: "Independent questions, one at a time", Action: start(session.ModeMicro)},
		{Label: "MACRO BLOCK", Hint: "One stimulus, five conclusions, answer in any order", Action: start(session.ModeMacro)},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		menu:         components.NewMenu(items),
		loadProgress: loadProgress,
		progress:     session.NewProgress(),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.Resume()
}

// Resume reloads progress; a finished drill may have changed it.
func (h *HomeScreen) Resume() tea.Cmd {
	if h.loadProgress == nil {
		return nil
	}
	load := h.loadProgress
	return func() tea.Msg {
		p, err := load(context.Background())
		return progressMsg{progress: p, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(progressMsg); ok {
		h.progress = msg.progress
		h.progressErr = msg.err
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height+8)
	cw := components.ContentWidth(width)

	title := titleFull
	if compact {
		title = titleCompact
	}
	sections := []string{
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title)),
		lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(theme.Hint.Render("Does the conclusion necessarily follow?")),
		components.Card(h.renderProgress(), cw),
		lipgloss.NewStyle().Width(cw).Render(h.menu.View()),
	}
	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) renderProgress() string {
	p := h.progress
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	line := func(label, value string) string {
		return dim.Render(fmt.Sprintf("%-16s", label)) + val.Render(value)
	}

	lines := []string{
		line("Stage", StageName(p.HighestUnlockedStage)),
		line("Micro runs", fmt.Sprintf("%d (best %d)", p.SessionsCompleted[session.ModeMicro], p.BestScore[session.ModeMicro])),
		line("Macro blocks", fmt.Sprintf("%d (best %d/2)", p.SessionsCompleted[session.ModeMacro], p.BestScore[session.ModeMacro])),
	}
	if h.progressErr != nil {
		lines = append(lines, theme.Warning.Render("Progress could not be loaded"))
	}
	return strings.Join(lines, "\n")
}

// StageName returns the display name of an unlocked stage.
func StageName(stage int) string {
	switch stage {
	case session.StageMacro:
		return "2 · Blocks"
	case session.StageMastery:
		return "3 · Mastery"
	default:
		return "1 · Warm-up"
	}
}
