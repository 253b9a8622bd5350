package settings

import "context"

type Repository interface {
	// Get devuelve ErrNotFound si el usuario nunca guardó preferencias.
	Get(ctx context.Context, userID string) (Settings, error)
	Put(ctx context.Context, s Settings) error
}
