package auth

import "context"

// AuthVerifier cambia el ID token del proveedor de identidad por el
// usuario dueño de los datos de adherencia. Un error significa token
// vencido, revocado o mal formado.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
