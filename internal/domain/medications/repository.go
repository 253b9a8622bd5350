package medications

import (
	"context"

	"meditrack/internal/domain/history"
)

type Repository interface {
	Create(ctx context.Context, m Medication) (string, error)
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByUser(ctx context.Context, userID string) ([]Medication, error)
	UpdateStatus(ctx context.Context, id string, status Status, counters Counters) error
	Delete(ctx context.Context, id string) error
}

// HistoryWriter es lo único que este módulo necesita del historial.
type HistoryWriter interface {
	Append(ctx context.Context, r history.Record) (string, error)
}
