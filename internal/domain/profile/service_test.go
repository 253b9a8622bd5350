package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	p   *Profile
	put int
}

func (r *testRepo) Get(context.Context) (Profile, error) {
	if r.p == nil {
		return Profile{}, ErrNotFound
	}
	return *r.p, nil
}

func (r *testRepo) Put(_ context.Context, p Profile) error {
	r.put++
	r.p = &p
	return nil
}

func TestService_GetEmptyBeforeFirstSave(t *testing.T) {
	p, err := NewService(&testRepo{}).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)
}

func TestService_SaveOverwritesWholesale(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Save(ctx, SaveInput{Name: "Ana", Age: 40, Allergies: "penicillin"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, SaveInput{Name: "Ana", Age: 41})
	require.NoError(t, err)

	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 41, p.Age)
	assert.Empty(t, p.Allergies)
	assert.Equal(t, 2, repo.put)
}

func TestService_SaveValidates(t *testing.T) {
	_, err := NewService(&testRepo{}).Save(context.Background(), SaveInput{Age: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
