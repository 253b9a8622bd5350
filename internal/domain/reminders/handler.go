package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"meditrack/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Post("/", createReminderHandler(svc))
		rr.Get("/", listRemindersHandler(svc))
		rr.Post("/watch", watchHandler(svc))
		rr.Delete("/watch", unwatchHandler(svc))
		rr.Delete("/{reminderID}", deleteReminderHandler(svc))
	})
}

type createReminderRequest struct {
	Medication string `json:"medication"`
	Time       string `json:"time"` // RFC3339 o YYYY-MM-DDTHH:MM (hora local)
}

type reminderResponse struct {
	ID         string    `json:"id"`
	Medication string    `json:"medication"`
	Time       time.Time `json:"time"`
	Local      string    `json:"local"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"createdAt"`
}

// createReminderHandler godoc
// @Summary Crear recordatorio
// @Description Crea un recordatorio para un instante absoluto. Si el usuario tiene el scheduler montado, el aviso se programa al llegar el cambio de la suscripción.
// @Tags reminders
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createReminderRequest true "Medicación y fecha-hora"
// @Success 201 {object} reminderResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /reminders [post]
func createReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rem, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Medication: req.Medication,
			Time:       req.Time,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReminderResponse(svc, rem))
	}
}

// listRemindersHandler godoc
// @Summary Listar recordatorios
// @Description Lista ordenada por instante ascendente. Monta el scheduler del usuario si no estaba montado.
// @Tags reminders
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} reminderResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reminders [get]
func listRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Igual que al abrir la pantalla: listar monta el scheduler.
		if err := svc.Watch(r.Context(), claims.UserID); err != nil && !errors.Is(err, ErrManagerClosed) {
			http.Error(w, "store error", http.StatusBadGateway)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]reminderResponse, 0, len(items))
		for _, rem := range items {
			out = append(out, toReminderResponse(svc, rem))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// watchHandler godoc
// @Summary Montar scheduler
// @Tags reminders
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 503 {string} string "shutting down"
// @Router /reminders/watch [post]
func watchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Watch(r.Context(), claims.UserID); err != nil {
			if errors.Is(err, ErrManagerClosed) {
				http.Error(w, "shutting down", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "store error", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// unwatchHandler godoc
// @Summary Desmontar scheduler
// @Description Corta la suscripción y cancela todos los avisos pendientes del usuario.
// @Tags reminders
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/watch [delete]
func unwatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		svc.Unwatch(claims.UserID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// deleteReminderHandler godoc
// @Summary Borrar recordatorio
// @Tags reminders
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param reminderID path string true "ID del recordatorio"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "reminder not found"
// @Router /reminders/{reminderID} [delete]
func deleteReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "reminderID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "reminder not found", http.StatusNotFound)
	default:
		http.Error(w, "store error", http.StatusBadGateway)
	}
}

func toReminderResponse(svc *Service, r Reminder) reminderResponse {
	return reminderResponse{
		ID:         r.ID,
		Medication: r.Medication,
		Time:       r.Time,
		Local:      svc.LocalTime(r.Time),
		State:      svc.State(r.UserID, r.ID).String(),
		CreatedAt:  r.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
