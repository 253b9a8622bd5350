package notify

import (
	"context"
	"errors"
)

var (
	// ErrPermissionDenied: el destino no acepta notificaciones
	// (sin permiso o sin dispositivos registrados).
	ErrPermissionDenied = errors.New("notification permission denied")
)

type Notification struct {
	UserID string
	Title  string
	Body   string
}

// Notifier entrega una notificación visible al usuario. Best-effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
