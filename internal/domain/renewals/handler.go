package renewals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"meditrack/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/renewals", func(rr chi.Router) {
		rr.Post("/", createRenewalHandler(svc))
		rr.Get("/", listRenewalsHandler(svc))
		rr.Delete("/{renewalID}", deleteRenewalHandler(svc))

		rr.Post("/{renewalID}/request", transitionHandler(svc.MarkRequested))
		rr.Post("/{renewalID}/approve", transitionHandler(svc.MarkApproved))
		rr.Post("/{renewalID}/deny", transitionHandler(svc.Deny))
	})
}

type createRenewalRequest struct {
	Name      string `json:"name"`
	Remaining *int   `json:"remaining"`
	RefillBy  string `json:"refillBy"` // YYYY-MM-DD opcional
	Pharmacy  string `json:"pharmacy"`
}

type badgeResponse struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

type renewalResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Remaining   *int          `json:"remaining,omitempty"`
	RefillBy    string        `json:"refillBy,omitempty"`
	Pharmacy    string        `json:"pharmacy,omitempty"`
	Status      Status        `json:"status"`
	DaysLeft    *int          `json:"daysLeft,omitempty"`
	Badge       badgeResponse `json:"badge"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	RequestedAt *time.Time    `json:"requestedAt,omitempty"`
}

// createRenewalHandler godoc
// @Summary Registrar renovación
// @Description Alta de un item del refill tracker. Arranca en ok; el badge se calcula en cada lectura.
// @Tags renewals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createRenewalRequest true "Datos del item; refillBy en YYYY-MM-DD"
// @Success 201 {object} renewalResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /renewals [post]
func createRenewalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createRenewalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Remaining: req.Remaining,
			RefillBy:  req.RefillBy,
			Pharmacy:  req.Pharmacy,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toRenewalResponse(v))
	}
}

// listRenewalsHandler godoc
// @Summary Listar renovaciones
// @Description Items del usuario, más nuevos primero, con días restantes y badge de urgencia.
// @Tags renewals
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} renewalResponse
// @Failure 401 {string} string "unauthorized"
// @Router /renewals [get]
func listRenewalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]renewalResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toRenewalResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// transitionHandler godoc
// @Summary Avanzar estado de renovación
// @Description request: ok/expiring/overdue/denied -> requested. approve: requested -> approved. deny: requested -> denied. Repetir el estado actual no hace nada.
// @Tags renewals
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param renewalID path string true "ID del item"
// @Success 200 {object} renewalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "renewal not found"
// @Failure 409 {string} string "invalid renewal state transition"
// @Router /renewals/{renewalID}/request [post]
// @Router /renewals/{renewalID}/approve [post]
// @Router /renewals/{renewalID}/deny [post]
func transitionHandler(fn func(ctx context.Context, userID, id string) (View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		v, err := fn(r.Context(), claims.UserID, chi.URLParam(r, "renewalID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRenewalResponse(v))
	}
}

// deleteRenewalHandler godoc
// @Summary Borrar renovación
// @Tags renewals
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param renewalID path string true "ID del item"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "renewal not found"
// @Router /renewals/{renewalID} [delete]
func deleteRenewalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "renewalID")); err != nil {
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
		http.Error(w, "renewal not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "store error", http.StatusBadGateway)
	}
}

func toRenewalResponse(v View) renewalResponse {
	out := renewalResponse{
		ID:          v.ID,
		Name:        v.Name,
		Remaining:   v.Remaining,
		Pharmacy:    v.Pharmacy,
		Status:      v.Status,
		DaysLeft:    v.DaysLeft,
		Badge:       badgeResponse{Label: v.Badge.Label, Tone: v.Badge.Tone},
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		RequestedAt: v.RequestedAt,
	}
	if v.RefillBy != nil {
		out.RefillBy = v.RefillBy.Format(dateLayout)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
