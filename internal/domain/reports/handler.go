package reports

import (
	"encoding/json"
	"net/http"
	"strings"

	"meditrack/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/reports/adherence", adherenceHandler(svc))
}

type adherenceResponse struct {
	Taken   int     `json:"taken"`
	Missed  int     `json:"missed"`
	Pending int     `json:"pending"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}

// adherenceHandler godoc
// @Summary Reporte de adherencia
// @Description Totales de taken / missed sobre las medicaciones del usuario.
// @Tags reports
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} adherenceResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reports/adherence [get]
func adherenceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.Adherence(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "store error", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(adherenceResponse{
			Taken:   a.Taken,
			Missed:  a.Missed,
			Pending: a.Pending,
			Total:   a.Total,
			Rate:    a.Rate,
		})
	}
}
