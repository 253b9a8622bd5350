package accounts

import (
	"context"
	"testing"

	"meditrack/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testProvider struct {
	calls int
	err   error
}

func (p *testProvider) SignUp(_ context.Context, email, _ string) (auth.Session, error) {
	p.calls++
	return auth.Session{UserID: "u1", Email: email}, p.err
}

func (p *testProvider) SignIn(_ context.Context, email, _ string) (auth.Session, error) {
	p.calls++
	return auth.Session{UserID: "u1", Email: email}, p.err
}

func TestService_ValidatesBeforeCallingProvider(t *testing.T) {
	p := &testProvider{}
	svc := NewService(p)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, Credentials{Email: "not-an-email", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Login(ctx, Credentials{Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, p.calls)

	s, err := svc.Login(ctx, Credentials{Email: " ana@example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", s.Email)
}

func TestService_PassesProviderErrors(t *testing.T) {
	svc := NewService(&testProvider{err: auth.ErrInvalidCredentials})
	_, err := svc.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "bad"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_WithoutProvider(t *testing.T) {
	_, err := NewService(nil).SignUp(context.Background(), Credentials{Email: "ana@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
