package devices

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
	r.Route("/me/devices", func(dr chi.Router) {
		dr.Post("/", registerDeviceHandler(svc))
		dr.Get("/", listDevicesHandler(svc))
		dr.Delete("/{deviceID}", unregisterDeviceHandler(svc))
	})
}

type registerDeviceRequest struct {
	Token string `json:"token"`
}

type deviceResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

// registerDeviceHandler godoc
// @Summary Registrar dispositivo
// @Description Registra el token push del dispositivo. Repetir el mismo token no crea duplicados.
// @Tags devices
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body registerDeviceRequest true "Token push"
// @Success 201 {object} deviceResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /me/devices [post]
func registerDeviceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req registerDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Register(r.Context(), claims.UserID, req.Token)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDeviceResponse(d))
	}
}

// listDevicesHandler godoc
// @Summary Listar dispositivos
// @Tags devices
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} deviceResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/devices [get]
func listDevicesHandler(svc *Service) http.HandlerFunc {
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
		out := make([]deviceResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDeviceResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// unregisterDeviceHandler godoc
// @Summary Quitar dispositivo
// @Tags devices
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param deviceID path string true "ID del dispositivo"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "device not found"
// @Router /me/devices/{deviceID} [delete]
func unregisterDeviceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Unregister(r.Context(), claims.UserID, chi.URLParam(r, "deviceID")); err != nil {
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
		http.Error(w, "device not found", http.StatusNotFound)
	default:
		http.Error(w, "store error", http.StatusBadGateway)
	}
}

func toDeviceResponse(d Device) deviceResponse {
	return deviceResponse{ID: d.ID, Token: d.Token, CreatedAt: d.CreatedAt}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
