// Package tui is the interactive recipe manager: a router over the list,
// detail and edit views, each fetching its own data when mounted.
package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/recipes/internal/defaults"
	"github.com/Makepad-fr/recipes/internal/ui"
)

// view is one screen bound to a route.
type view interface {
	Init() tea.Cmd
	Update(tea.Msg) (view, tea.Cmd)
	View() string
}

// App is the root model. It owns the active view and swaps it on
// navigation; nothing is shared or cached between views.
type App struct {
	svc     Service
	timeout time.Duration
	route   Route
	current view
	mount   int
	width   int
	height  int
	baseURL string
}

// Option configures an App.
type Option func(*App)

// WithRequestTimeout bounds each API call made by a view.
func WithRequestTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithBaseURL shows the API location in the header.
func WithBaseURL(u string) Option {
	return func(a *App) {
		a.baseURL = u
	}
}

// WithStartRoute mounts r instead of the list on start.
func WithStartRoute(r Route) Option {
	return func(a *App) {
		a.route = r
	}
}

// New returns the root model with its start view mounted.
func New(svc Service, opts ...Option) App {
	a := App{
		svc:     svc,
		timeout: defaults.HTTPClientTimeout,
		route:   ListRoute(),
		width:   80,
		height:  24,
	}
	for _, opt := range opts {
		opt(&a)
	}
	a.current = a.build(a.route)
	return a
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, svc Service, opts ...Option) error {
	p := tea.NewProgram(New(svc, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Route reports the active route.
func (a App) Route() Route { return a.route }

func (a *App) build(r Route) view {
	a.mount++
	req := requester{svc: a.svc, timeout: a.timeout, mount: a.mount}
	w, h := a.innerSize()
	slog.Debug("mount view", "route", r.String(), "mount", a.mount)
	switch r.Kind {
	case RouteDetail:
		return newDetailView(req, r.ID, w)
	case RouteEdit:
		return newEditView(req, r.ID, w)
	default:
		return newListView(req, w, h)
	}
}

// innerSize is the space left inside the frame and header.
func (a App) innerSize() (int, int) {
	return a.width - 4, a.height - 4
}

func (a App) Init() tea.Cmd {
	return a.current.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		w, h := a.innerSize()
		var cmd tea.Cmd
		a.current, cmd = a.current.Update(tea.WindowSizeMsg{Width: w, Height: h})
		return a, cmd
	case navigateMsg:
		slog.Info("navigate", "from", a.route.String(), "to", msg.to.String())
		a.route = msg.to
		a.current = a.build(msg.to)
		return a, a.current.Init()
	case requestFailedMsg:
		slog.Error("request failed",
			"op", msg.op,
			"route", a.route.String(),
			"stale", msg.mount != a.mount,
			"error", msg.err)
	}

	if m, ok := msg.(mounted); ok && m.mountID() != a.mount {
		return a, nil
	}

	var cmd tea.Cmd
	a.current, cmd = a.current.Update(msg)
	return a, cmd
}

func (a App) View() string {
	t := ui.Current()
	header := t.Title.Render("recipes") + "  " + t.Accent.Render(a.route.String())
	if a.baseURL != "" {
		header += "  " + t.Muted.Render(a.baseURL)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, header, "", a.current.View())
	return ui.PanelString(body)
}
