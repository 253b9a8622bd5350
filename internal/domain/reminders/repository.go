package reminders

import "context"

type Repository interface {
	Create(ctx context.Context, r Reminder) (string, error)
	GetByID(ctx context.Context, id string) (Reminder, error)
	ListByUser(ctx context.Context, userID string) ([]Reminder, error)
	Delete(ctx context.Context, id string) error

	// Watch entrega la lista actual y luego una por cada cambio.
	// El canal se cierra cuando ctx termina.
	Watch(ctx context.Context, userID string) (<-chan ListUpdate, error)
}
