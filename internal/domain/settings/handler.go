package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"meditrack/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/settings", getSettingsHandler(svc))
	r.Put("/me/settings", putSettingsHandler(svc))
}

type settingsRequest struct {
	Theme string `json:"theme"`
}

type settingsResponse struct {
	Theme Theme `json:"theme"`
}

// getSettingsHandler godoc
// @Summary Ver preferencias
// @Tags settings
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} settingsResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/settings [get]
func getSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := svc.Get(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "store error", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, settingsResponse{Theme: st.Theme})
	}
}

// putSettingsHandler godoc
// @Summary Guardar preferencias
// @Tags settings
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body settingsRequest true "light | dark"
// @Success 200 {object} settingsResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /me/settings [put]
func putSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req settingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		st, err := svc.Update(r.Context(), claims.UserID, UpdateInput{Theme: Theme(req.Theme)})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "store error", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, settingsResponse{Theme: st.Theme})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
