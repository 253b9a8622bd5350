package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"meditrack/internal/ports/store"

	"github.com/google/uuid"
)

const DefaultPollInterval = 3 * time.Second

// Store guarda cada documento como jsonb en la tabla documents.
// El filtro por usuario se resuelve en SQL; el orden lo aplica store.Apply
// para que todos los backends ordenen igual.
type Store struct {
	db   *sql.DB
	poll time.Duration
}

func NewStore(db *sql.DB, poll time.Duration) *Store {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Store{db: db, poll: poll}
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrNotFound
	}

	var raw []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data
		FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("postgres get %s/%s: %w", collection, id, err)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (s *Store) List(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q.UserID != "" && q.UserField != "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, data
			FROM documents
			WHERE collection = $1 AND data->>$2 = $3
		`, collection, q.UserField, q.UserID)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, data
			FROM documents
			WHERE collection = $1
		`, collection)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres list %s: %w", collection, err)
	}
	defer rows.Close()

	out := make([]store.Document, 0)
	for rows.Next() {
		var d store.Document
		var raw []byte
		if err := rows.Scan(&d.ID, &raw); err != nil {
			return nil, err
		}
		d.Data = json.RawMessage(raw)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return store.Apply(out, q), nil
}

func (s *Store) Subscribe(ctx context.Context, collection string, q store.Query) (<-chan store.Snapshot, error) {
	return store.Poll(ctx, s.poll, func(ctx context.Context) ([]store.Document, error) {
		return s.List(ctx, collection, q)
	}), nil
}

func (s *Store) Create(ctx context.Context, collection string, record any) (string, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, now(), now())
	`, collection, id, string(raw))
	if err != nil {
		return "", fmt.Errorf("postgres create %s: %w", collection, err)
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET data = data || $3::jsonb,
			updated_at = now()
		WHERE collection = $1 AND id = $2
	`, collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("postgres update %s/%s: %w", collection, id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Put(ctx context.Context, collection, id string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, now(), now())
		ON CONFLICT (collection, id) DO UPDATE
		SET data = EXCLUDED.data,
			updated_at = now()
	`, collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("postgres put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return fmt.Errorf("postgres remove %s/%s: %w", collection, id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
