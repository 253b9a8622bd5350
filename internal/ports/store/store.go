package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Document es un registro tal como vive en el store remoto.
// Data queda en JSON crudo; cada repositorio lo decodifica y normaliza.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Query filtra por dueño y ordena por un campo del documento.
type Query struct {
	UserField string // ej: "userId"
	UserID    string // vacío = sin filtro
	OrderBy   string // vacío = sin orden
	Desc      bool
}

// Snapshot es una foto completa de la colección filtrada.
// Err != nil indica que el backend reportó un error en la suscripción.
type Snapshot struct {
	Documents []Document
	Err       error
}

// Store es el cliente del store remoto (document DB / key-path DB).
// Todas las operaciones son llamadas de red: sin batching, sin retry.
type Store interface {
	Get(ctx context.Context, collection, id string, out any) error
	List(ctx context.Context, collection string, q Query) ([]Document, error)

	// Subscribe entrega el snapshot actual y luego uno por cada cambio
	// observado. El canal se cierra cuando ctx termina.
	Subscribe(ctx context.Context, collection string, q Query) (<-chan Snapshot, error)

	Create(ctx context.Context, collection string, record any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Put(ctx context.Context, collection, id string, record any) error
	Remove(ctx context.Context, collection, id string) error
}

// ToMap convierte un registro (struct con tags json) en mapa genérico.
func ToMap(record any) (map[string]any, error) {
	if m, ok := record.(map[string]any); ok {
		return m, nil
	}
	b, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Field extrae un campo de primer nivel como valor genérico.
func Field(data json.RawMessage, name string) any {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m[name]
}

// Apply filtra y ordena documentos en memoria según q.
// Lo usan los adapters cuyo backend no resuelve el filtro del lado servidor.
func Apply(docs []Document, q Query) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if q.UserID != "" && q.UserField != "" {
			v, _ := Field(d.Data, q.UserField).(string)
			if v != q.UserID {
				continue
			}
		}
		out = append(out, d)
	}

	// Orden base por id para que los empates sean deterministas.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if q.OrderBy == "" {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a := Field(out[i].Data, q.OrderBy)
		b := Field(out[j].Data, q.OrderBy)
		if q.Desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return out
}

// less compara valores JSON: números como números, el resto como string.
// Los timestamps RFC3339 en UTC ordenan bien como string.
func less(a, b any) bool {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	if aNum && bNum {
		return fa < fb
	}
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	sa, _ := a.(string)
	sb, _ := b.(string)
	return sa < sb
}
