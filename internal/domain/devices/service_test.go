package devices

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	items map[string]Device
	next  int
}

func newTestRepo() *testRepo { return &testRepo{items: map[string]Device{}} }

func (r *testRepo) Create(_ context.Context, d Device) (string, error) {
	r.next++
	d.ID = "d" + string(rune('0'+r.next))
	r.items[d.ID] = d
	return d.ID, nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Device, error) {
	d, ok := r.items[id]
	if !ok {
		return Device{}, ErrNotFound
	}
	return d, nil
}

func (r *testRepo) ListByUser(_ context.Context, userID string) ([]Device, error) {
	out := []Device{}
	for _, d := range r.items {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func TestService_RegisterIsIdempotentPerToken(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	d1, err := svc.Register(ctx, "u1", " tok-1 ")
	require.NoError(t, err)
	d2, err := svc.Register(ctx, "u1", "tok-1")
	require.NoError(t, err)
	assert.Equal(t, d1.ID, d2.ID)
	assert.Len(t, repo.items, 1)

	_, err = svc.Register(ctx, "u1", "tok-2")
	require.NoError(t, err)

	tokens, err := svc.Tokens(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, tokens)

	_, err = svc.Register(ctx, "u1", " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UnregisterChecksOwner(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	d, err := svc.Register(ctx, "u1", "tok-1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Unregister(ctx, "u2", d.ID), ErrNotFound)
	require.NoError(t, svc.Unregister(ctx, "u1", d.ID))

	tokens, err := svc.Tokens(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
