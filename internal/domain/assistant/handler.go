package assistant

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router) {
	r.Post("/assistant/messages", messageHandler())
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

// messageHandler godoc
// @Summary Asistente
// @Description Respuestas enlatadas por palabra clave.
// @Tags assistant
// @Accept json
// @Produce json
// @Param payload body messageRequest true "Mensaje"
// @Success 200 {object} messageResponse
// @Failure 400 {string} string "invalid json / empty message"
// @Router /assistant/messages [post]
func messageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			http.Error(w, "empty message", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(messageResponse{Reply: Reply(req.Text)})
	}
}
