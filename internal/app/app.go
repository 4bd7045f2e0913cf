package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"smartswiggy/internal/catalog"
	carthandler "smartswiggy/internal/handlers/cart"
	cataloghandler "smartswiggy/internal/handlers/catalog"
	grouphandler "smartswiggy/internal/handlers/group"
	slothandler "smartswiggy/internal/handlers/slot"
	"smartswiggy/internal/metrics"
	"smartswiggy/internal/paymentrequest"
	"smartswiggy/internal/pricing"
	"smartswiggy/internal/routes"
	cartservice "smartswiggy/internal/service/cart"
	groupservice "smartswiggy/internal/service/group"
	"smartswiggy/internal/slot"
)

type Storage interface {
	cartservice.CartStorage
	groupservice.GroupStorage
}

type Options struct {
	Port            int
	Rules           pricing.Rules
	RequestInterval time.Duration
}

type App struct {
	log    *slog.Logger
	server *http.Server
	groups *groupservice.GroupService
}

func New(log *slog.Logger, storage Storage, m *metrics.Metrics, opts Options) *App {
	menu := catalog.Default()
	cartService := cartservice.New(log, storage, opts.Rules, m).WithMenu(menu)

	dispatcher := paymentrequest.New(log, paymentrequest.NewLogNotifier(log), opts.RequestInterval)
	groupService := groupservice.New(log, storage, dispatcher, opts.Rules, m).WithMenu(menu)

	mux := http.NewServeMux()
	routes.New(
		carthandler.New(log, cartService),
		grouphandler.New(log, groupService),
		cataloghandler.New(log, menu),
		slothandler.New(log, slot.NewPlanner(slot.DefaultSchedule())),
	).Register(mux)
	mux.Handle("/metrics", m.Handler())

	return &App{
		log: log,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           m.Middleware(mux),
			ReadHeaderTimeout: 5 * time.Second,
		},
		groups: groupService,
	}
}

// Handler exposes the fully wired router.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until Stop is called.
func (a *App) Run() error {
	const op = "app.Run"

	a.log.Info("Starting HTTP server", slog.String("addr", a.server.Addr))

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Stop drains in-flight requests, then halts payment dispatch.
func (a *App) Stop(ctx context.Context) error {
	const op = "app.Stop"

	err := a.server.Shutdown(ctx)
	a.groups.Close()

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
