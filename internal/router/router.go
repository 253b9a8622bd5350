// @title MediTrack API
// @version 1.0
// @description Seguimiento de medicación: estados, recordatorios, renovaciones e historial.
// @BasePath /
package router

import (
	"net/http"

	_ "meditrack/internal/docs"
	"meditrack/internal/domain/accounts"
	"meditrack/internal/domain/assistant"
	"meditrack/internal/domain/devices"
	"meditrack/internal/domain/history"
	"meditrack/internal/domain/medications"
	"meditrack/internal/domain/profile"
	"meditrack/internal/domain/reminders"
	"meditrack/internal/domain/renewals"
	"meditrack/internal/domain/reports"
	"meditrack/internal/domain/settings"
	"meditrack/internal/middleware"
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services agrupa los servicios ya armados. Un servicio nil no monta rutas.
type Services struct {
	Accounts    *accounts.Service
	Medications *medications.Service
	History     *history.Service
	Reminders   *reminders.Service
	Renewals    *renewals.Service
	Profile     *profile.Service
	Settings    *settings.Service
	Devices     *devices.Service
	Reports     *reports.Service
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger

	Services Services
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	s := opts.Services
	if s.Accounts != nil {
		accounts.RegisterRoutes(r, s.Accounts)
	}
	if s.Medications != nil {
		medications.RegisterRoutes(r, s.Medications)
	}
	if s.History != nil {
		history.RegisterRoutes(r, s.History)
	}
	if s.Reminders != nil {
		reminders.RegisterRoutes(r, s.Reminders)
	}
	if s.Renewals != nil {
		renewals.RegisterRoutes(r, s.Renewals)
	}
	if s.Profile != nil {
		profile.RegisterRoutes(r, s.Profile)
	}
	if s.Settings != nil {
		settings.RegisterRoutes(r, s.Settings)
	}
	if s.Devices != nil {
		devices.RegisterRoutes(r, s.Devices)
	}
	if s.Reports != nil {
		reports.RegisterRoutes(r, s.Reports)
	}
	assistant.RegisterRoutes(r)

	return r
}
