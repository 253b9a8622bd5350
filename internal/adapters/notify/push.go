package notify

import (
	"context"
	"errors"

	"meditrack/internal/adapters/messaging/fcm"
	"meditrack/internal/platform/logger"
	"meditrack/internal/ports/notify"
)

// TokenLister devuelve los tokens push registrados de un usuario.
type TokenLister interface {
	Tokens(ctx context.Context, userID string) ([]string, error)
}

// Sender entrega un mensaje a un token.
type Sender interface {
	Send(ctx context.Context, m fcm.Message) (string, error)
}

// PushNotifier envía la notificación a cada dispositivo del usuario.
type PushNotifier struct {
	tokens TokenLister
	sender Sender
	log    logger.Logger
}

func NewPushNotifier(tokens TokenLister, sender Sender, log logger.Logger) *PushNotifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &PushNotifier{tokens: tokens, sender: sender, log: log.With(map[string]any{"component": "push"})}
}

// Notify devuelve ErrPermissionDenied si el usuario no tiene dispositivos.
// Alcanza con que un envío salga bien.
func (p *PushNotifier) Notify(ctx context.Context, n notify.Notification) error {
	tokens, err := p.tokens.Tokens(ctx, n.UserID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return notify.ErrPermissionDenied
	}

	var firstErr error
	sent := 0
	for _, tok := range tokens {
		_, err := p.sender.Send(ctx, fcm.Message{Token: tok, Title: n.Title, Body: n.Body})
		if err != nil {
			if !errors.Is(err, fcm.ErrUnregistered) {
				p.log.Warn("push send failed", map[string]any{"user_id": n.UserID, "err": err.Error()})
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++
	}
	if sent > 0 {
		return nil
	}
	return firstErr
}

// Multi reparte la notificación entre varios notifiers y devuelve el primer
// error.
type Multi []notify.Notifier

func (m Multi) Notify(ctx context.Context, n notify.Notification) error {
	var firstErr error
	for _, nt := range m {
		if nt == nil {
			continue
		}
		if err := nt.Notify(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
