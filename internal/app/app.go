package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/syllogiz/internal/coach"
	"github.com/abhisek/syllogiz/internal/router"
	"github.com/abhisek/syllogiz/internal/screen"
	"github.com/abhisek/syllogiz/internal/screens/drill"
	"github.com/abhisek/syllogiz/internal/screens/home"
	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/store"
	"github.com/abhisek/syllogiz/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Source   session.QuestionSource
	Sink     session.SummarySink
	Progress store.ProgressRepo // optional
	Drill    session.Config
	Coach    *coach.Service // optional
	Log      logrus.FieldLogger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// notifier forwards messages from background goroutines into the running
// program. Sends before the program starts are dropped.
type notifier struct {
	p atomic.Pointer[tea.Program]
}

func (n *notifier) send(msg tea.Msg) {
	if p := n.p.Load(); p != nil {
		p.Send(msg)
	}
}

func newAppModel(root screen.Screen) AppModel {
	return AppModel{router: router.New(root)}
}

// newHome wires the home screen to a drill factory. Every drill gets its
// own controller so no state crosses runs.
func newHome(opts Options, n *notifier) *home.HomeScreen {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	var load session.ProgressLoader
	var save session.ProgressSaver
	if opts.Progress != nil {
		load, save = session.StoreProgress(opts.Progress)
	}

	factory := func(mode session.Mode) screen.Screen {
		ctrl, err := session.New(context.Background(), opts.Drill, session.Deps{
			Source:       opts.Source,
			Sink:         opts.Sink,
			LoadProgress: load,
			SaveProgress: save,
			Log:          log.WithField("mode", mode),
			OnTick: func(elapsed time.Duration) {
				n.send(drill.TickMsg{Elapsed: elapsed})
			},
		})
		if err != nil {
			log.WithError(err).Error("failed to start drill")
			return drill.New(nil, mode, opts.Coach)
		}
		return drill.New(ctrl, mode, opts.Coach)
	}
	return home.New(factory, load)
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if hp, ok := active.(screen.KeyHintProvider); ok {
			hints = hp.KeyHints()
		}
	}
	if hints == nil {
		hints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits. Open drills
// are closed on the way out.
func Run(ctx context.Context, opts Options) error {
	if opts.Source == nil {
		return errors.New("app: question source is required")
	}
	n := &notifier{}
	model := newAppModel(newHome(opts, n))

	p := tea.NewProgram(model, tea.WithContext(ctx))
	n.p.Store(p)
	defer n.p.Store(nil)

	_, err := p.Run()
	model.router.CloseAll() // the router is shared by every copy of the model
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
