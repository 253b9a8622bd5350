package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"meditrack/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signupHandler(svc))
		ar.Post("/login", loginHandler(svc))
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn"`
}

// signupHandler godoc
// @Summary Registro
// @Description Crea la cuenta en el proveedor de identidad y devuelve la sesión.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "Email y password"
// @Success 201 {object} sessionResponse
// @Failure 400 {string} string "mensaje del proveedor"
// @Router /auth/signup [post]
func signupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		s, err := svc.SignUp(r.Context(), Credentials{Email: req.Email, Password: req.Password})
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toSessionResponse(s))
	}
}

// loginHandler godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "Email y password"
// @Success 200 {object} sessionResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "invalid email or password"
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		s, err := svc.Login(r.Context(), Credentials{Email: req.Email, Password: req.Password})
		if err != nil {
			writeError(w, err, http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(s))
	}
}

// writeError: los fallos de autenticación vuelven como mensaje, sin reintento.
func writeError(w http.ResponseWriter, err error, authStatus int) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, auth.ErrWeakPassword):
		http.Error(w, err.Error(), authStatus)
	default:
		http.Error(w, "identity provider error", http.StatusBadGateway)
	}
}

func toSessionResponse(s auth.Session) sessionResponse {
	return sessionResponse{
		UserID:       s.UserID,
		Email:        s.Email,
		IDToken:      s.IDToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
