package history

import (
	"encoding/json"
	"net/http"
	"strings"

	"meditrack/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/history", listHistoryHandler(svc))
}

type recordResponse struct {
	ID           string `json:"id"`
	MedicationID string `json:"medicationId"`
	Name         string `json:"name"`
	Dose         int    `json:"dose"`
	Time         string `json:"time"`
	Frequency    string `json:"frequency"`
	Status       string `json:"status"`
	Date         string `json:"date"`
}

type groupResponse struct {
	Date    string           `json:"date"`
	Records []recordResponse `json:"records"`
}

// listHistoryHandler godoc
// @Summary Historial de tomas
// @Description Historial del usuario, más reciente primero y agrupado por día. Filtros opcionales por estado y por nombre (substring, sin distinguir mayúsculas).
// @Tags history
// @Produce json
// @Param X-Debug-User-ID header string false "Usuario del paciente cuando no hay proveedor de identidad"
// @Param Authorization header string false "Bearer token en producción"
// @Param status query string false "pending | taken | missed"
// @Param name query string false "Substring del nombre"
// @Success 200 {array} groupResponse
// @Failure 401 {string} string "unauthorized"
// @Router /history [get]
func listHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		items, err := svc.List(r.Context(), claims.UserID, Filter{
			Status: q.Get("status"),
			Name:   q.Get("name"),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		groups := GroupByDate(items)
		out := make([]groupResponse, 0, len(groups))
		for _, g := range groups {
			gr := groupResponse{Date: g.Date, Records: make([]recordResponse, 0, len(g.Records))}
			for _, rec := range g.Records {
				gr.Records = append(gr.Records, toRecordResponse(rec))
			}
			out = append(out, gr)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toRecordResponse(r Record) recordResponse {
	return recordResponse{
		ID:           r.ID,
		MedicationID: r.MedicationID,
		Name:         r.Name,
		Dose:         r.Dose,
		Time:         r.Time,
		Frequency:    r.Frequency,
		Status:       r.Status,
		Date:         r.Date,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
