package memory

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"meditrack/internal/ports/store"

	"github.com/google/uuid"
)

// Store es un store.Store en memoria para dev y tests.
// Las suscripciones se despiertan en cada mutación de su colección.
type Store struct {
	mu      sync.RWMutex
	data    map[string]map[string]json.RawMessage
	subs    map[string]map[int]chan struct{}
	nextSub int

	newID func() string
}

func NewStore() *Store {
	return &Store{
		data:  make(map[string]map[string]json.RawMessage),
		subs:  make(map[string]map[int]chan struct{}),
		newID: uuid.NewString,
	}
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.RLock()
	raw, ok := s.data[collection][id]
	s.mu.RUnlock()

	if !ok {
		return store.ErrNotFound
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (s *Store) List(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	s.mu.RLock()
	docs := make([]store.Document, 0, len(s.data[collection]))
	for id, raw := range s.data[collection] {
		docs = append(docs, store.Document{ID: id, Data: raw})
	}
	s.mu.RUnlock()

	return store.Apply(docs, q), nil
}

func (s *Store) Subscribe(ctx context.Context, collection string, q store.Query) (<-chan store.Snapshot, error) {
	wake := make(chan struct{}, 1)

	s.mu.Lock()
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]chan struct{})
	}
	subID := s.nextSub
	s.nextSub++
	s.subs[collection][subID] = wake
	s.mu.Unlock()

	out := make(chan store.Snapshot, 1)

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.subs[collection], subID)
			s.mu.Unlock()
			close(out)
		}()

		for {
			docs, err := s.List(ctx, collection, q)
			select {
			case out <- store.Snapshot{Documents: docs, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-wake:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *Store) Create(ctx context.Context, collection string, record any) (string, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return "", err
	}

	id := s.newID()

	s.mu.Lock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]json.RawMessage)
	}
	s.data[collection][id] = raw
	s.mu.Unlock()

	s.notify(collection)
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("document id required")
	}

	s.mu.Lock()
	raw, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		m = map[string]any{}
	}
	for k, v := range fields {
		m[k] = v
	}

	merged, err := json.Marshal(m)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.data[collection][id] = merged
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Put(ctx context.Context, collection, id string, record any) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("document id required")
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]json.RawMessage)
	}
	s.data[collection][id] = raw
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) Remove(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	if _, ok := s.data[collection][id]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.data[collection], id)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *Store) notify(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, wake := range s.subs[collection] {
		select {
		case wake <- struct{}{}:
		default:
			// ya hay un wake pendiente; el suscriptor leerá el estado más reciente
		}
	}
}
