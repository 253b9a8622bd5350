package medications

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
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc))
		mr.Post("/{medicationID}/status", setStatusHandler(svc))
	})
}

type createMedicationRequest struct {
	Name      string `json:"name"`
	Dose      int    `json:"dose"`
	Time      string `json:"time"`      // HH:MM
	Frequency string `json:"frequency"` // daily | weekly | custom
}

type setStatusRequest struct {
	Status string `json:"status"` // taken | missed
}

type countersResponse struct {
	Taken  int `json:"taken"`
	Missed int `json:"missed"`
}

type medicationResponse struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Name      string           `json:"name"`
	Dose      int              `json:"dose"`
	Time      string           `json:"time"`
	Frequency Frequency        `json:"frequency"`
	Status    Status           `json:"status"`
	Counters  countersResponse `json:"counters"`
	CreatedAt time.Time        `json:"createdAt"`
}

// createMedicationHandler godoc
// @Summary Registrar medicación
// @Description Alta de una medicación. Siempre arranca en pending con contadores en cero.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createMedicationRequest true "Datos de la medicación; time en HH:MM"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Dose:      req.Dose,
			Time:      req.Time,
			Frequency: Frequency(strings.TrimSpace(req.Frequency)),
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "store error", http.StatusBadGateway)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicaciones
// @Tags medications
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// setStatusHandler godoc
// @Summary Marcar toma
// @Description Marca la medicación como taken o missed. Repetir el estado actual no genera cambios ni historial.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID de la medicación"
// @Param payload body setStatusRequest true "Nuevo estado"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid json / invalid status"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Failure 502 {string} string "store error"
// @Router /medications/{medicationID}/status [post]
func setStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		id := chi.URLParam(r, "medicationID")
		m, err := svc.SetStatus(r.Context(), claims.UserID, id, Status(strings.TrimSpace(req.Status)))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// deleteMedicationHandler godoc
// @Summary Borrar medicación
// @Tags medications
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param medicationID path string true "ID de la medicación"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "medicationID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "medication not found", http.StatusNotFound)
	default:
		http.Error(w, "store error", http.StatusBadGateway)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	return medicationResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Dose:      m.Dose,
		Time:      m.Time,
		Frequency: m.Frequency,
		Status:    m.Status,
		Counters:  countersResponse{Taken: m.Counters.Taken, Missed: m.Counters.Missed},
		CreatedAt: m.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
