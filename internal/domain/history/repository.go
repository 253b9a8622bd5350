package history

import "context"

type Repository interface {
	Append(ctx context.Context, r Record) (string, error)
	ListByUser(ctx context.Context, userID string) ([]Record, error)
}
