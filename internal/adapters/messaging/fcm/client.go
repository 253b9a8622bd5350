package fcm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"meditrack/internal/platform/httpclient"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultBaseURL = "https://fcm.googleapis.com"
	Scope          = "https://www.googleapis.com/auth/firebase.messaging"
)

var (
	ErrNotConfigured = errors.New("fcm client not configured")
	// ErrUnregistered: el token ya no es válido (app desinstalada, token rotado).
	ErrUnregistered = errors.New("fcm token unregistered")
)

type Config struct {
	ProjectID string

	// CredentialsFile es el JSON de la service account. Vacío = credenciales
	// por defecto del entorno (GOOGLE_APPLICATION_CREDENTIALS, metadata).
	CredentialsFile string

	BaseURL string
	Timeout time.Duration
}

type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Client envía mensajes por la API HTTP v1 de FCM.
type Client struct {
	http    *httpclient.Client
	project string
}

// New resuelve las credenciales de la service account y arma el cliente
// autenticado.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, ErrNotConfigured
	}

	var ts oauth2.TokenSource
	if cfg.CredentialsFile != "" {
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("fcm: read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, raw, Scope)
		if err != nil {
			return nil, fmt.Errorf("fcm: parse credentials: %w", err)
		}
		ts = creds.TokenSource
	} else {
		creds, err := google.FindDefaultCredentials(ctx, Scope)
		if err != nil {
			return nil, fmt.Errorf("fcm: default credentials: %w", err)
		}
		ts = creds.TokenSource
	}

	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = cfg.Timeout
	return NewWithHTTPClient(cfg.ProjectID, cfg.BaseURL, hc)
}

// NewWithHTTPClient recibe un *http.Client que ya agrega el bearer token.
func NewWithHTTPClient(projectID, baseURL string, hc *http.Client) (*Client, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, ErrNotConfigured
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := httpclient.NewWithHTTPClient(hc)
	if err := c.SetBaseURL(baseURL); err != nil {
		return nil, err
	}
	return &Client{http: c, project: projectID}, nil
}

type sendRequest struct {
	Message wireMessage `json:"message"`
}

type wireMessage struct {
	Token        string            `json:"token"`
	Notification wireNotification  `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type wireNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send devuelve el nombre del mensaje asignado por FCM
// (projects/{p}/messages/{id}).
func (c *Client) Send(ctx context.Context, m Message) (string, error) {
	if strings.TrimSpace(m.Token) == "" {
		return "", errors.New("fcm: token required")
	}

	req := sendRequest{Message: wireMessage{
		Token:        m.Token,
		Notification: wireNotification{Title: m.Title, Body: m.Body},
		Data:         m.Data,
	}}
	var resp struct {
		Name string `json:"name"`
	}

	path := "/v1/projects/" + url.PathEscape(c.project) + "/messages:send"
	if err := c.http.DoJSON(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		if httpclient.StatusCode(err) == http.StatusNotFound {
			return "", ErrUnregistered
		}
		return "", fmt.Errorf("fcm send: %w", err)
	}
	return resp.Name, nil
}
