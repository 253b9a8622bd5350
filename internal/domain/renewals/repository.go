package renewals

import "context"

type Repository interface {
	Create(ctx context.Context, it Item) (string, error)
	GetByID(ctx context.Context, id string) (Item, error)
	// ListByUser devuelve los items más nuevos primero.
	ListByUser(ctx context.Context, userID string) ([]Item, error)
	UpdateStatus(ctx context.Context, id string, p StatusPatch) error
	Delete(ctx context.Context, id string) error
}
