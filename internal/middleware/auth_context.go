package middleware

import (
	"context"
	"net/http"
	"strings"

	"meditrack/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Headers aceptados solo cuando no hay proveedor de identidad configurado
// (desarrollo local con STORE_BACKEND=memory y sin IDENTITY_URL).
const (
	DevUserHeader  = "X-Debug-User-ID"
	DevEmailHeader = "X-Debug-User-Email"
)

// AuthContext resuelve el usuario dueño de los tratamientos, recordatorios
// y renovaciones del request.
//
// Con verifier, el Bearer token del proveedor de identidad se cambia por
// claims {UserID, Email}. Sin verifier se toman de los headers de desarrollo.
// Un token inválido o ausente no corta el request: cada handler de /me,
// /medications, /reminders o /renewals responde 401 por su cuenta.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := resolveClaims(r, verifier)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func resolveClaims(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	if verifier == nil {
		uid := strings.TrimSpace(r.Header.Get(DevUserHeader))
		if uid == "" {
			return auth.Claims{}, false
		}
		return auth.Claims{UserID: uid, Email: strings.TrimSpace(r.Header.Get(DevEmailHeader))}, true
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}
	claims, err := verifier.Verify(r.Context(), token)
	if err != nil || claims.UserID == "" {
		return auth.Claims{}, false
	}
	return claims, true
}

// WithClaims guarda el usuario autenticado en el contexto.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
