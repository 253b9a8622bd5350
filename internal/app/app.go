// Package app arma el grafo de dependencias del servidor a partir de la
// configuración y controla su ciclo de vida.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"meditrack/internal/adapters/auth/identity"
	"meditrack/internal/adapters/auth/local"
	"meditrack/internal/adapters/messaging/fcm"
	notifyadapter "meditrack/internal/adapters/notify"
	"meditrack/internal/adapters/storage/documents"
	"meditrack/internal/adapters/storage/firestore"
	"meditrack/internal/adapters/storage/memory"
	pg "meditrack/internal/adapters/storage/postgres"
	"meditrack/internal/adapters/storage/rtdb"
	"meditrack/internal/config"
	"meditrack/internal/domain/accounts"
	"meditrack/internal/domain/devices"
	"meditrack/internal/domain/history"
	"meditrack/internal/domain/medications"
	"meditrack/internal/domain/profile"
	"meditrack/internal/domain/reminders"
	"meditrack/internal/domain/renewals"
	"meditrack/internal/domain/reports"
	"meditrack/internal/domain/settings"
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/auth"
	"meditrack/internal/ports/notify"
	"meditrack/internal/ports/store"
	"meditrack/internal/router"

	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	sessionTTL      = 24 * time.Hour
)

type App struct {
	cfg config.Config
	log logger.Logger

	handler http.Handler
	manager *reminders.Manager
	closers []io.Closer
}

// New conecta el backend elegido, el proveedor de identidad y los notifiers.
func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}
	a := &App{cfg: cfg, log: log}

	st, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	provider, verifier, err := a.identity()
	if err != nil {
		a.Close()
		return nil, err
	}

	devicesSvc := devices.NewService(documents.NewDeviceRepo(st))
	notifier, err := a.notifier(ctx, devicesSvc)
	if err != nil {
		a.Close()
		return nil, err
	}

	histRepo := documents.NewHistoryRepo(st, time.Now)
	reminderRepo := documents.NewReminderRepo(st)
	a.manager = reminders.NewManager(reminderRepo, notifier, log)

	medsSvc := medications.NewService(documents.NewMedicationRepo(st), histRepo, log)

	a.handler = router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Logger:       log,
		Services: router.Services{
			Accounts:    accounts.NewService(provider),
			Medications: medsSvc,
			History:     history.NewService(histRepo),
			Reminders:   reminders.NewService(reminderRepo, a.manager),
			Renewals:    renewals.NewService(documents.NewRenewalRepo(st)),
			Profile:     profile.NewService(documents.NewProfileRepo(st)),
			Settings:    settings.NewService(documents.NewSettingsRepo(st)),
			Devices:     devicesSvc,
			Reports:     reports.NewService(medsSvc),
		},
	})

	log.Info("app ready", map[string]any{
		"store":    cfg.StoreBackend,
		"dev_mode": a.cfg.DevMode(),
	})
	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.handler
}

// Run sirve HTTP hasta que ctx termina y luego apaga ordenadamente.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      a.handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("shutting down", nil)
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// Close detiene los schedulers y libera conexiones. Idempotente.
func (a *App) Close() {
	if a.manager != nil {
		a.manager.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("close failed", map[string]any{"err": err.Error()})
		}
	}
	a.closers = nil
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	switch a.cfg.StoreBackend {
	case config.BackendRTDB:
		c, err := rtdb.New(rtdb.Config{
			BaseURL:      a.cfg.RTDBURL,
			AuthToken:    a.cfg.RTDBAuth,
			Timeout:      a.cfg.HTTPTimeout,
			PollInterval: a.cfg.RTDBPollInterval,
			RateLimit:    a.cfg.RTDBRateLimit,
		}, a.log)
		if err != nil {
			return nil, fmt.Errorf("rtdb: %w", err)
		}
		return c, nil

	case config.BackendFirestore:
		fs, err := firestore.New(ctx, a.cfg.FirestoreProject)
		if err != nil {
			return nil, fmt.Errorf("firestore: %w", err)
		}
		a.closers = append(a.closers, fs)
		return fs, nil

	case config.BackendPostgres:
		db, err := pg.Open(a.cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres open: %w", err)
		}
		a.closers = append(a.closers, db)
		if err := pg.Migrate(ctx, db); err != nil {
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return pg.NewStore(db, a.cfg.DBPollInterval), nil

	default:
		return memory.NewStore(), nil
	}
}

// identity elige proveedor hosteado, JWT local o modo dev (sin verifier).
func (a *App) identity() (auth.IdentityProvider, auth.AuthVerifier, error) {
	switch {
	case a.cfg.IdentityAPIKey != "":
		c, err := identity.NewClient(identity.Config{
			BaseURL: a.cfg.IdentityURL,
			APIKey:  a.cfg.IdentityAPIKey,
			Timeout: a.cfg.HTTPTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, identity.NewVerifier(c), nil

	case a.cfg.JWTSecret != "":
		p, err := local.NewProvider(a.cfg.JWTSecret, sessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	}
	return nil, nil, nil
}

func (a *App) notifier(ctx context.Context, tokens notifyadapter.TokenLister) (notify.Notifier, error) {
	display := notifyadapter.NewLogNotifier(a.log)
	if a.cfg.FCMProject == "" {
		return display, nil
	}

	sender, err := fcm.New(ctx, fcm.Config{
		ProjectID:       a.cfg.FCMProject,
		CredentialsFile: a.cfg.FCMCredentialsFile,
		Timeout:         a.cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("fcm: %w", err)
	}
	return notifyadapter.Multi{display, notifyadapter.NewPushNotifier(tokens, sender, a.log)}, nil
}
