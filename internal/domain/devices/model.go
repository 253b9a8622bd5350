package devices

import "time"

// Device es un token push registrado por un usuario.
type Device struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
}
