package profile

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
	r.Get("/profile", getProfileHandler(svc))
	r.Put("/profile", putProfileHandler(svc))
}

type profileRequest struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Allergies  string `json:"allergies"`
	Conditions string `json:"conditions"`
	Doctor     string `json:"doctor"`
}

type profileResponse struct {
	Name       string     `json:"name"`
	Age        int        `json:"age"`
	Allergies  string     `json:"allergies"`
	Conditions string     `json:"conditions"`
	Doctor     string     `json:"doctor"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// getProfileHandler godoc
// @Summary Ver perfil
// @Tags profile
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Router /profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context())
		if err != nil {
			http.Error(w, "store error", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// putProfileHandler godoc
// @Summary Guardar perfil
// @Description Reemplaza el perfil completo.
// @Tags profile
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body profileRequest true "Perfil"
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /profile [put]
func putProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req profileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Save(r.Context(), SaveInput(req))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "store error", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func toProfileResponse(p Profile) profileResponse {
	out := profileResponse{
		Name:       p.Name,
		Age:        p.Age,
		Allergies:  p.Allergies,
		Conditions: p.Conditions,
		Doctor:     p.Doctor,
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
