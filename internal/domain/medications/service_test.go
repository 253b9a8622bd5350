package medications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meditrack/internal/domain/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	mu        sync.Mutex
	items     map[string]Medication
	next      int
	updateErr error
	updates   int
}

func newTestRepo() *testRepo {
	return &testRepo{items: map[string]Medication{}}
}

func (r *testRepo) Create(_ context.Context, m Medication) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	m.ID = "med-" + string(rune('0'+r.next))
	r.items[m.ID] = m
	return m.ID, nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) ListByUser(_ context.Context, userID string) ([]Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Medication{}
	for _, m := range r.items {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) UpdateStatus(_ context.Context, id string, s Status, c Counters) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	m := r.items[id]
	m.Status = s
	m.Counters = c
	r.items[id] = m
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type testHistory struct {
	records []history.Record
	err     error
}

func (h *testHistory) Append(_ context.Context, rec history.Record) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	h.records = append(h.records, rec)
	return "h", nil
}

func newTestService(repo *testRepo, hist *testHistory) *Service {
	svc := NewService(repo, hist, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_Create_Defaults(t *testing.T) {
	svc := newTestService(newTestRepo(), &testHistory{})

	m, err := svc.Create(context.Background(), "u1", CreateInput{Name: " Aspirin ", Dose: 100, Time: "08:00"})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "Aspirin", m.Name)
	assert.Equal(t, StatusPending, m.Status)
	assert.Equal(t, Counters{}, m.Counters)
	assert.Equal(t, FrequencyDaily, m.Frequency)
}

func TestService_Create_Validates(t *testing.T) {
	svc := newTestService(newTestRepo(), &testHistory{})
	ctx := context.Background()

	bad := []CreateInput{
		{Name: "", Dose: 1, Time: "08:00"},
		{Name: "A", Dose: 0, Time: "08:00"},
		{Name: "A", Dose: 1, Time: "8am"},
		{Name: "A", Dose: 1, Time: "08:00", Frequency: "hourly"},
	}
	for _, in := range bad {
		_, err := svc.Create(ctx, "u1", in)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}

	_, err := svc.Create(ctx, "", CreateInput{Name: "A", Dose: 1, Time: "08:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_SetStatus_TakenTwice(t *testing.T) {
	repo := newTestRepo()
	hist := &testHistory{}
	svc := newTestService(repo, hist)
	ctx := context.Background()

	m, err := svc.Create(ctx, "u1", CreateInput{Name: "Aspirin", Dose: 100, Time: "08:00"})
	require.NoError(t, err)

	got, err := svc.SetStatus(ctx, "u1", m.ID, StatusTaken)
	require.NoError(t, err)
	assert.Equal(t, Counters{Taken: 1}, got.Counters)
	require.Len(t, hist.records, 1)
	assert.Equal(t, "taken", hist.records[0].Status)
	assert.Equal(t, "2026-03-14", hist.records[0].Date)

	got, err = svc.SetStatus(ctx, "u1", m.ID, StatusTaken)
	require.NoError(t, err)
	assert.Equal(t, Counters{Taken: 1}, got.Counters)
	assert.Len(t, hist.records, 1, "no new history record")
	assert.Equal(t, 1, repo.updates)
}

func TestService_SetStatus_WritesAreIndependent(t *testing.T) {
	repo := newTestRepo()
	repo.updateErr = errors.New("boom")
	hist := &testHistory{}
	svc := newTestService(repo, hist)
	ctx := context.Background()

	m, err := svc.Create(ctx, "u1", CreateInput{Name: "Aspirin", Dose: 100, Time: "08:00"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, "u1", m.ID, StatusMissed)
	require.Error(t, err)
	assert.Len(t, hist.records, 1, "history append still happens")

	repo.updateErr = nil
	hist.err = errors.New("history down")
	m2, err := svc.Create(ctx, "u1", CreateInput{Name: "Ibuprofen", Dose: 200, Time: "09:00"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, "u1", m2.ID, StatusTaken)
	require.Error(t, err)
	stored, _ := repo.GetByID(ctx, m2.ID)
	assert.Equal(t, StatusTaken, stored.Status, "medication patch is not rolled back")
}

func TestService_SetStatus_OtherUser(t *testing.T) {
	svc := newTestService(newTestRepo(), &testHistory{})
	ctx := context.Background()

	m, err := svc.Create(ctx, "u1", CreateInput{Name: "Aspirin", Dose: 100, Time: "08:00"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, "u2", m.ID, StatusTaken)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u2", m.ID), ErrNotFound)
	assert.NoError(t, svc.Delete(ctx, "u1", m.ID))
}
