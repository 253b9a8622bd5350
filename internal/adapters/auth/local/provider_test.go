package local

import (
	"context"
	"testing"
	"time"

	"meditrack/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_SignUpSignInVerify(t *testing.T) {
	p, err := NewProvider("test-secret", time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	s, err := p.SignUp(ctx, " Ana@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, s.UserID)
	assert.Equal(t, "ana@example.com", s.Email)
	assert.Equal(t, 60, s.ExpiresIn)

	claims, err := p.Verify(ctx, s.IDToken)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	s2, err := p.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, s.UserID, s2.UserID)
}

func TestProvider_Errors(t *testing.T) {
	p, err := NewProvider("test-secret", time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = p.SignUp(ctx, "ana@example.com", "123")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	_, err = p.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "ANA@example.com", "secret2")
	assert.ErrorIs(t, err, auth.ErrEmailExists)

	_, err = p.SignIn(ctx, "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestProvider_VerifyRejectsForeignAndExpired(t *testing.T) {
	p, err := NewProvider("secret-a", time.Minute)
	require.NoError(t, err)
	other, err := NewProvider("secret-b", time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	s, err := other.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	_, err = p.Verify(ctx, s.IDToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	s, err = p.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.Verify(ctx, s.IDToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	_, err := NewProvider(" ", 0)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
