package app

import (
	"context"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangaverse/pkg/app/screens"
	"github.com/kerbaras/mangaverse/pkg/integrations"
	"github.com/kerbaras/mangaverse/pkg/services"
)

type App struct {
	coordinator *services.Coordinator
	exporter    integrations.Exporter
	logger      *slog.Logger
}

type Option func(*App)

func WithExporter(e integrations.Exporter) Option {
	return func(a *App) { a.exporter = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

func NewApp(coordinator *services.Coordinator, opts ...Option) *App {
	a := &App{
		coordinator: coordinator,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run blocks until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	rootOpts := []screens.RootOption{screens.WithLogger(a.logger)}
	if a.exporter != nil {
		rootOpts = append(rootOpts, screens.WithExporter(a.exporter))
	}
	model := screens.NewRootScreen(ctx, a.coordinator, rootOpts...)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	a.coordinator.SetRenderer(NewRenderer(p.Send))
	defer a.coordinator.SetRenderer(nil)

	a.logger.Info("starting interface")
	_, err := p.Run()
	return err
}

// NewRenderer forwards coordinator events into a running program through
// send.
func NewRenderer(send func(tea.Msg)) services.RendererFunc {
	return func(e services.Event) {
		send(screens.EventMsg{Event: e})
	}
}
