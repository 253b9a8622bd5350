package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"meditrack/internal/platform/httpclient"
	"meditrack/internal/ports/auth"
)

const DefaultBaseURL = "https://identitytoolkit.googleapis.com"

var (
	ErrNotConfigured = errors.New("identity client not configured")
	ErrUnauthorized  = errors.New("identity unauthorized")
	ErrUpstream      = errors.New("identity upstream error")
)

// Config del cliente del proveedor de identidad hosteado.
type Config struct {
	BaseURL string // vacío = DefaultBaseURL
	APIKey  string
	Timeout time.Duration
}

// Client habla con la API REST de cuentas del proveedor
// (accounts:signUp, accounts:signInWithPassword, accounts:lookup).
type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrNotConfigured
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, apiKey: key}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type sessionResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	return c.credentials(ctx, "/v1/accounts:signUp", email, password)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	return c.credentials(ctx, "/v1/accounts:signInWithPassword", email, password)
}

// VerifyToken resuelve el usuario dueño de un ID token.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out struct {
		Users []struct {
			LocalID string `json:"localId"`
			Email   string `json:"email"`
		} `json:"users"`
	}
	err := c.http.DoJSON(ctx, http.MethodPost, c.path("/v1/accounts:lookup"), nil, map[string]string{"idToken": token}, &out)
	if err != nil {
		if code := httpclient.StatusCode(err); code == http.StatusBadRequest || code == http.StatusUnauthorized {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(out.Users) == 0 || strings.TrimSpace(out.Users[0].LocalID) == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	return auth.Claims{
		UserID: strings.TrimSpace(out.Users[0].LocalID),
		Email:  strings.TrimSpace(out.Users[0].Email),
	}, nil
}

func (c *Client) credentials(ctx context.Context, path, email, password string) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, ErrNotConfigured
	}

	var out sessionResponse
	err := c.http.DoJSON(ctx, http.MethodPost, c.path(path), nil, credentialsRequest{
		Email:             strings.TrimSpace(email),
		Password:          password,
		ReturnSecureToken: true,
	}, &out)
	if err != nil {
		return auth.Session{}, mapError(err)
	}

	expires, _ := strconv.Atoi(out.ExpiresIn)
	return auth.Session{
		UserID:       out.LocalID,
		Email:        out.Email,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    expires,
	}, nil
}

func (c *Client) path(p string) string {
	return p + "?" + url.Values{"key": {c.apiKey}}.Encode()
}

// mapError traduce los códigos del proveedor (EMAIL_EXISTS,
// INVALID_PASSWORD, ...) a los errores del puerto.
func mapError(err error) error {
	var he *httpclient.HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var body errorResponse
	_ = json.Unmarshal([]byte(he.Body), &body)
	code := body.Error.Message
	if i := strings.IndexAny(code, " :"); i > 0 {
		code = code[:i]
	}

	switch code {
	case "EMAIL_EXISTS":
		return auth.ErrEmailExists
	case "WEAK_PASSWORD":
		return auth.ErrWeakPassword
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED":
		return auth.ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: %s", ErrUpstream, body.Error.Message)
	}
}
