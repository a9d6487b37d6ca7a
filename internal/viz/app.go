package viz

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/san-kum/loopviz/internal/playback"
)

const (
	sidebarWidth = 34
	startLabel   = "[ Start Visualization ]"
	runningLabel = "Visualizing..."
)

// TickMsg is delivered by the playback timer. It carries the lease it was
// scheduled under so that ticks outliving a stop or restart are dropped.
type TickMsg struct {
	Lease playback.Lease
	At    time.Time
}

// AppOptions configures NewApp.
type AppOptions struct {
	Interval  time.Duration
	Theme     Theme
	Autostart bool
	Logger    zerolog.Logger
}

// App is the interactive walkthrough.
type App struct {
	ctrl      *playback.Controller
	interval  time.Duration
	theme     Theme
	autostart bool
	log       zerolog.Logger

	cursor        int
	keys          keyMap
	help          help.Model
	spinner       spinner.Model
	width, height int
}

// NewApp builds the model around ctrl. The controller's selected scenario
// is the initial list position.
func NewApp(ctrl *playback.Controller, opts AppOptions) App {
	if opts.Interval <= 0 {
		opts.Interval = playback.DefaultInterval
	}
	if opts.Theme.Name == "" {
		opts.Theme = ThemeCyberpunk
	}
	keys := newKeyMap()
	keys.syncRunning(ctrl.Running())
	return App{
		ctrl:      ctrl,
		interval:  opts.Interval,
		theme:     opts.Theme,
		autostart: opts.Autostart,
		log:       opts.Logger,
		cursor:    ctrl.State().Scenario,
		keys:      keys,
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(opts.Theme.Success))),
		width:     120,
		height:    40,
	}
}

func (m App) Init() tea.Cmd {
	if m.autostart {
		return func() tea.Msg { return startMsg{} }
	}
	return nil
}

type startMsg struct{}

func (m App) tick(lease playback.Lease) tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg{Lease: lease, At: t} })
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case startMsg:
		return m.start()
	case TickMsg:
		m.ctrl.Tick(msg.Lease)
		m.keys.syncRunning(m.ctrl.Running())
		// Only the live lease reschedules, so at most one timer chain exists.
		if m.ctrl.Lease() != msg.Lease {
			return m, nil
		}
		return m, m.tick(msg.Lease)
	case spinner.TickMsg:
		if !m.ctrl.Running() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Theme):
		m.theme = NextTheme(m.theme)
		m.spinner.Style = lipgloss.NewStyle().Foreground(m.theme.Success)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.ctrl.Store().Count()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if err := m.ctrl.Select(m.cursor); err != nil {
			m.log.Error().Err(err).Msg("select scenario")
		}
		m.keys.syncRunning(m.ctrl.Running())
	case key.Matches(msg, m.keys.Start):
		return m.start()
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.Stop()
		m.keys.syncRunning(false)
	case key.Matches(msg, m.keys.Prev):
		m.ctrl.Step(-1)
	case key.Matches(msg, m.keys.Next):
		m.ctrl.Step(1)
	}
	return m, nil
}

func (m App) start() (App, tea.Cmd) {
	if m.ctrl.Running() {
		return m, nil
	}
	lease := m.ctrl.Start()
	m.keys.syncRunning(true)
	return m, tea.Batch(m.tick(lease), m.spinner.Tick)
}

// Controller exposes the playback state behind the view.
func (m App) Controller() *playback.Controller { return m.ctrl }

// Theme returns the active palette.
func (m App) Theme() Theme { return m.theme }

func (m App) View() string {
	s := newStyles(m.theme)
	mainWidth := m.width - sidebarWidth - 4
	if mainWidth < minWidth {
		mainWidth = minWidth
	}

	var b strings.Builder
	b.WriteString(GradientText("Interactive JavaScript Event Loop Visualizer", m.theme.Primary, m.theme.Secondary) + "\n\n")

	b.WriteString(s.heading.Render("Choose an example:") + "\n")
	selected := m.ctrl.State().Scenario
	for i, name := range m.ctrl.Store().Names() {
		prefix, style := "  ", s.text
		if i == m.cursor {
			prefix, style = "> ", s.selected
		}
		if i == selected {
			name += " ●"
		}
		b.WriteString(style.Render(prefix+name) + "\n")
	}
	b.WriteString("\n" + CodeListing(m.ctrl.Scenario(), m.theme) + "\n\n")

	if m.ctrl.Running() {
		b.WriteString(m.spinner.View() + " " + s.running.Render(runningLabel))
	} else {
		b.WriteString(s.stopped.Render(startLabel))
	}
	b.WriteString("\n" + s.Separator(mainWidth) + "\n")

	frame := Project(m.ctrl.Scenario(), m.ctrl.State())
	b.WriteString(Render(frame, m.theme, mainWidth) + "\n\n")
	b.WriteString(m.help.View(m.keys))

	main := lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, Sidebar(m.theme, sidebarWidth), main)
}
