package devices

import "context"

type Repository interface {
	Create(ctx context.Context, d Device) (string, error)
	GetByID(ctx context.Context, id string) (Device, error)
	ListByUser(ctx context.Context, userID string) ([]Device, error)
	Delete(ctx context.Context, id string) error
}
