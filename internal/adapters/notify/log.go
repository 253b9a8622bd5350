package notify

import (
	"context"

	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
)

// LogNotifier es la "pantalla local" del servidor: cada notificación queda
// como una línea de log.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogNotifier{log: log.With(map[string]any{"component": "notifier"})}
}

func (n *LogNotifier) Notify(_ context.Context, msg notify.Notification) error {
	n.log.Info(msg.Title, map[string]any{
		"user_id": msg.UserID,
		"body":    msg.Body,
	})
	return nil
}
