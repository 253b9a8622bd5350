package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"meditrack/internal/ports/store"
)

var (
	ErrNotConfigured = errors.New("firestore project not configured")
)

// Store implementa store.Store sobre el document DB hosteado.
// Acá sí hay suscripciones push (Snapshots); el orden lo resuelve el backend.
type Store struct {
	client *gfs.Client
}

func New(ctx context.Context, projectID string) (*Store, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, ErrNotConfigured
	}
	c, err := gfs.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Store{client: c}, nil
}

func NewWithClient(c *gfs.Client) *Store {
	return &Store{client: c}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	if strings.TrimSpace(id) == "" {
		return store.ErrNotFound
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("firestore get %s/%s: %w", collection, id, err)
	}
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(snap.Data())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *Store) List(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	snaps, err := s.query(collection, q).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore list %s: %w", collection, err)
	}
	return toDocuments(snaps)
}

func (s *Store) Subscribe(ctx context.Context, collection string, q store.Query) (<-chan store.Snapshot, error) {
	it := s.query(collection, q).Snapshots(ctx)
	out := make(chan store.Snapshot, 1)

	go func() {
		defer close(out)
		defer it.Stop()

		for {
			qs, err := it.Next()
			if ctx.Err() != nil {
				return
			}

			var snap store.Snapshot
			if err != nil {
				snap.Err = fmt.Errorf("firestore snapshot %s: %w", collection, err)
			} else {
				docs, derr := qs.Documents.GetAll()
				if derr == nil {
					snap.Documents, derr = toDocuments(docs)
				}
				snap.Err = derr
			}

			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}

			// Un error en el iterador es terminal.
			if err != nil {
				return
			}
		}
	}()

	return out, nil
}

func (s *Store) Create(ctx context.Context, collection string, record any) (string, error) {
	data, err := store.ToMap(record)
	if err != nil {
		return "", err
	}
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("firestore create %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	updates := make([]gfs.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, gfs.Update{FieldPath: gfs.FieldPath{k}, Value: v})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("firestore update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Put(ctx context.Context, collection, id string, record any) error {
	data, err := store.ToMap(record)
	if err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return fmt.Errorf("firestore put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx, gfs.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("firestore remove %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) query(collection string, q store.Query) gfs.Query {
	query := s.client.Collection(collection).Query
	if q.UserID != "" && q.UserField != "" {
		query = query.Where(q.UserField, "==", q.UserID)
	}
	if q.OrderBy != "" {
		dir := gfs.Asc
		if q.Desc {
			dir = gfs.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	return query
}

func toDocuments(snaps []*gfs.DocumentSnapshot) ([]store.Document, error) {
	out := make([]store.Document, 0, len(snaps))
	for _, snap := range snaps {
		raw, err := json.Marshal(snap.Data())
		if err != nil {
			return nil, err
		}
		out = append(out, store.Document{ID: snap.Ref.ID, Data: raw})
	}
	return out, nil
}
