package profile

import "context"

type Repository interface {
	// Get devuelve ErrNotFound si nunca se guardó.
	Get(ctx context.Context) (Profile, error)
	Put(ctx context.Context, p Profile) error
}
