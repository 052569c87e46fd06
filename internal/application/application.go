package application

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/psds-microservice/helpdesk-cli/internal/access"
	"github.com/psds-microservice/helpdesk-cli/internal/apiclient"
	"github.com/psds-microservice/helpdesk-cli/internal/config"
	"github.com/psds-microservice/helpdesk-cli/internal/database"
	"github.com/psds-microservice/helpdesk-cli/internal/service"
	"github.com/psds-microservice/helpdesk-cli/internal/session"
	"github.com/psds-microservice/helpdesk-cli/internal/view"
)

// App собирает всё, что нужно командам: хранилище сессии, API-клиент и сервисы.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Sessions session.Store
	API      *apiclient.Client
	Tickets  *service.TicketService
	Devices  *service.DeviceService

	closers []func() error
}

// New validates cfg and wires the session store and services.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Log: log}

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	a.Sessions = store
	a.API = apiclient.New(cfg.BaseURL, store, log)
	a.Tickets = service.NewTicketService(a.API)
	a.Devices = service.NewDeviceService(a.API)

	log.Debug().Str("base_url", cfg.BaseURL).Str("storage", cfg.Storage.Backend).Msg("app: ready")
	return a, nil
}

func (a *App) openStore() (session.Store, error) {
	switch a.Config.Storage.Backend {
	case config.StorageSQLite:
		db, err := database.Open(a.Config.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		a.closers = append(a.closers, sqlDB.Close)

		before, after, err := database.MigrateUp(db)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if after != before {
			a.Log.Info().Int64("from", before).Int64("to", after).Msg("storage: migrated")
		}
		return database.NewKVStore(db), nil
	default:
		return session.NewFileStore(a.Config.Storage.SessionFile), nil
	}
}

// Deps builds the controller dependencies reporting to n.
func (a *App) Deps(n view.Notifier) view.Deps {
	return view.Deps{
		TicketAPI:    a.Tickets,
		DeviceAPI:    a.Devices,
		Sessions:     a.Sessions,
		Notifier:     n,
		SummaryWords: a.Config.SummaryWords,
	}
}

// Authorize gates a command behind route. The returned error names where
// the user would have been sent instead.
func (a *App) Authorize(route string) (session.Session, error) {
	d, err := access.Check(a.Sessions, route)
	if err != nil {
		a.Log.Debug().Str("route", route).Str("role", string(d.Role)).Str("redirect", d.Redirect).Msg("access: denied")
		if d.Redirect == access.RouteLogin {
			return session.Session{}, fmt.Errorf("%w: run `helpdesk session import` first", err)
		}
		return session.Session{}, fmt.Errorf("%w (your start page is %s)", err, d.Redirect)
	}
	s, _ := a.Sessions.Session()
	return s, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
