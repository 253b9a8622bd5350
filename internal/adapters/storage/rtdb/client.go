package rtdb

import (
	"bytes"
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
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/store"
)

const (
	DefaultPollInterval = 5 * time.Second
)

var (
	ErrNotConfigured = errors.New("rtdb client not configured")
)

// Config del cliente para la base key-path hosteada.
type Config struct {
	BaseURL string

	// AuthToken opcional; se manda como ?auth=<token>.
	AuthToken string

	Timeout      time.Duration
	PollInterval time.Duration

	// RateLimit en requests/segundo; 0 = sin límite.
	RateLimit float64
}

// Client implementa store.Store contra {base}/{collection}/{id}.json.
// No hay push del lado servidor: Subscribe hace polling.
type Client struct {
	http *httpclient.Client
	auth string
	poll time.Duration
	log  logger.Logger
}

func New(cfg Config, log logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.WithRateLimit(cfg.RateLimit)

	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Client{
		http: hc,
		auth: strings.TrimSpace(cfg.AuthToken),
		poll: poll,
		log:  log.With(map[string]any{"component": "rtdb"}),
	}, nil
}

func (c *Client) Get(ctx context.Context, collection, id string, out any) error {
	if strings.TrimSpace(id) == "" {
		return store.ErrNotFound
	}
	raw, err := c.http.Do(ctx, http.MethodGet, c.path(collection, id, nil), nil, nil)
	if err != nil {
		return fmt.Errorf("rtdb get %s/%s: %w", collection, id, err)
	}
	if isNull(raw) {
		return store.ErrNotFound
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) List(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	var params url.Values
	if q.UserID != "" && q.UserField != "" {
		// la base espera los valores JSON-encoded: orderBy="userId"&equalTo="u1"
		params = url.Values{}
		params.Set("orderBy", strconv.Quote(q.UserField))
		params.Set("equalTo", strconv.Quote(q.UserID))
	}

	raw, err := c.http.Do(ctx, http.MethodGet, c.path(collection, "", params), nil, nil)
	if err != nil && params != nil && httpclient.StatusCode(err) == http.StatusBadRequest {
		// Sin índice definido para el campo: traemos todo y filtramos acá.
		c.log.Debug("server-side filter rejected, filtering locally", map[string]any{"collection": collection})
		raw, err = c.http.Do(ctx, http.MethodGet, c.path(collection, "", nil), nil, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("rtdb list %s: %w", collection, err)
	}
	if isNull(raw) {
		return []store.Document{}, nil
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, fmt.Errorf("rtdb list %s: decode: %w", collection, err)
	}

	docs := make([]store.Document, 0, len(byID))
	for id, data := range byID {
		if isNull(data) {
			continue
		}
		docs = append(docs, store.Document{ID: id, Data: data})
	}
	return store.Apply(docs, q), nil
}

func (c *Client) Subscribe(ctx context.Context, collection string, q store.Query) (<-chan store.Snapshot, error) {
	return store.Poll(ctx, c.poll, func(ctx context.Context) ([]store.Document, error) {
		return c.List(ctx, collection, q)
	}), nil
}

func (c *Client) Create(ctx context.Context, collection string, record any) (string, error) {
	var resp struct {
		Name string `json:"name"`
	}
	if err := c.http.DoJSON(ctx, http.MethodPost, c.path(collection, "", nil), nil, record, &resp); err != nil {
		return "", fmt.Errorf("rtdb create %s: %w", collection, err)
	}
	if resp.Name == "" {
		return "", fmt.Errorf("rtdb create %s: response missing name", collection)
	}
	return resp.Name, nil
}

func (c *Client) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("document id required")
	}
	if err := c.http.DoJSON(ctx, http.MethodPatch, c.path(collection, id, nil), nil, fields, nil); err != nil {
		return fmt.Errorf("rtdb update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (c *Client) Put(ctx context.Context, collection, id string, record any) error {
	if err := c.http.DoJSON(ctx, http.MethodPut, c.path(collection, id, nil), nil, record, nil); err != nil {
		return fmt.Errorf("rtdb put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (c *Client) Remove(ctx context.Context, collection, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("document id required")
	}
	// DELETE sobre una ruta inexistente responde 200 null.
	if err := c.Get(ctx, collection, id, nil); err != nil {
		return err
	}
	if err := c.http.DoJSON(ctx, http.MethodDelete, c.path(collection, id, nil), nil, nil, nil); err != nil {
		return fmt.Errorf("rtdb remove %s/%s: %w", collection, id, err)
	}
	return nil
}

// path arma /{collection}/{id}.json; id vacío apunta a la colección.
func (c *Client) path(collection, id string, params url.Values) string {
	p := "/" + strings.Trim(collection, "/")
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	p += ".json"

	if c.auth != "" {
		if params == nil {
			params = url.Values{}
		}
		params.Set("auth", c.auth)
	}
	if len(params) > 0 {
		p += "?" + params.Encode()
	}
	return p
}

func isNull(raw []byte) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
