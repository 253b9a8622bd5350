package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	items map[string]Settings
}

func (r *testRepo) Get(_ context.Context, userID string) (Settings, error) {
	s, ok := r.items[userID]
	if !ok {
		return Settings{}, ErrNotFound
	}
	return s, nil
}

func (r *testRepo) Put(_ context.Context, s Settings) error {
	r.items[s.UserID] = s
	return nil
}

func TestService_DefaultsToLight(t *testing.T) {
	svc := NewService(&testRepo{items: map[string]Settings{}})
	s, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Theme)
}

func TestService_UpdatePerUser(t *testing.T) {
	svc := NewService(&testRepo{items: map[string]Settings{}})
	ctx := context.Background()

	_, err := svc.Update(ctx, "u1", UpdateInput{Theme: " Dark "})
	require.NoError(t, err)

	s, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, s.Theme)

	s, err = svc.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Theme)

	_, err = svc.Update(ctx, "u1", UpdateInput{Theme: "blue"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
