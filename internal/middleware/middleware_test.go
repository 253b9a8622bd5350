package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"meditrack/internal/ports/auth"

	"github.com/stretchr/testify/assert"
)

type testVerifier struct{}

func (testVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return auth.Claims{UserID: "u1", Email: "a@b.c"}, nil
}

func claimsEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := GetClaims(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(c.UserID))
	})
}

func TestAuthContext_DevHeader(t *testing.T) {
	h := AuthContext(nil)(claimsEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "dev-user")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "dev-user", rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthContext_Bearer(t *testing.T) {
	h := AuthContext(testVerifier{})(claimsEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "u1", rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	req.Header.Set("X-Debug-User-ID", "ignored")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthContext_CarriesEmail(t *testing.T) {
	var got auth.Claims
	h := AuthContext(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/me/profile", nil)
	req.Header.Set(DevUserHeader, " patient-1 ")
	req.Header.Set(DevEmailHeader, "patient@example.com")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, auth.Claims{UserID: "patient-1", Email: "patient@example.com"}, got)

	got = auth.Claims{}
	h = AuthContext(testVerifier{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r.Context())
	}))
	req = httptest.NewRequest(http.MethodGet, "/me/profile", nil)
	req.Header.Set("Authorization", "bearer   good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, auth.Claims{UserID: "u1", Email: "a@b.c"}, got)
}

func TestAuthContext_RejectsEmptySubject(t *testing.T) {
	h := AuthContext(emptyVerifier{})(claimsEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

type emptyVerifier struct{}

func (emptyVerifier) Verify(context.Context, string) (auth.Claims, error) {
	return auth.Claims{Email: "a@b.c"}, nil
}

func TestRecover_Returns500(t *testing.T) {
	h := Recover(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	h := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}
