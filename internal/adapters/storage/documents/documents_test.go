package documents

import (
	"context"
	"math"
	"testing"
	"time"

	"meditrack/internal/adapters/storage/memory"
	"meditrack/internal/domain/devices"
	"meditrack/internal/domain/history"
	"meditrack/internal/domain/medications"
	"meditrack/internal/domain/profile"
	"meditrack/internal/domain/reminders"
	"meditrack/internal/domain/renewals"
	"meditrack/internal/domain/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func TestMedicationRepo_RoundTripAndUpdate(t *testing.T) {
	s := memory.NewStore()
	repo := NewMedicationRepo(s)
	ctx := context.Background()

	id, err := repo.Create(ctx, medications.Medication{
		UserID: "u1", Name: "Aspirin", Dose: 100, Time: "08:00",
		Frequency: medications.FrequencyDaily, Status: medications.StatusPending,
		CreatedAt: fixedClock(),
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, id, medications.StatusTaken, medications.Counters{Taken: 1}))

	m, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", m.Name)
	assert.Equal(t, medications.StatusTaken, m.Status)
	assert.Equal(t, medications.Counters{Taken: 1}, m.Counters)
	assert.True(t, m.CreatedAt.Equal(fixedClock()))

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "nope", medications.StatusTaken, medications.Counters{}), medications.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, medications.ErrNotFound)
}

func TestMedicationRepo_NormalizesMalformedRecords(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, CollectionMedications, "m1", map[string]any{
		"userId":    "u1",
		"name":      "Ibuprofen",
		"dose":      "200",
		"status":    "finished",
		"frequency": 7,
		"counters":  "lots",
	}))
	require.NoError(t, s.Put(ctx, CollectionMedications, "m2", map[string]any{
		"userId": "u1",
		"dose":   -5,
		"status": "missed",
	}))

	list, err := NewMedicationRepo(s).ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[string]medications.Medication{}
	for _, m := range list {
		byID[m.ID] = m
	}
	assert.Equal(t, 200, byID["m1"].Dose)
	assert.Equal(t, medications.StatusPending, byID["m1"].Status)
	assert.Equal(t, medications.FrequencyDaily, byID["m1"].Frequency)
	assert.Equal(t, medications.Counters{}, byID["m1"].Counters)

	assert.Equal(t, 0, byID["m2"].Dose)
	assert.Equal(t, medications.Counters{Missed: 1}, byID["m2"].Counters)
}

func TestHistoryRepo_FillsMissingDateAndStatus(t *testing.T) {
	s := memory.NewStore()
	repo := NewHistoryRepo(s, fixedClock)
	ctx := context.Background()

	_, err := repo.Append(ctx, history.Record{UserID: "u1", Name: "A", Status: "taken", Date: "2025-03-01"})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, CollectionHistory, "legacy", map[string]any{"userId": "u1", "name": "B"}))
	_, err = repo.Append(ctx, history.Record{UserID: "u2", Name: "C", Status: "missed", Date: "2025-03-05"})
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	var legacy history.Record
	for _, r := range list {
		if r.ID == "legacy" {
			legacy = r
		}
	}
	assert.Equal(t, "2025-03-10", legacy.Date)
	assert.Equal(t, "pending", legacy.Status)
}

func TestReminderRepo_ListOrderedAndWatch(t *testing.T) {
	s := memory.NewStore()
	repo := NewReminderRepo(s)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	late := fixedClock().Add(2 * time.Hour)
	early := fixedClock().Add(time.Hour)
	_, err := repo.Create(ctx, reminders.Reminder{UserID: "u1", Medication: "Late", Time: late, CreatedAt: fixedClock()})
	require.NoError(t, err)
	_, err = repo.Create(ctx, reminders.Reminder{UserID: "u1", Medication: "Early", Time: early, CreatedAt: fixedClock()})
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Early", list[0].Medication)
	assert.True(t, list[0].Time.Equal(early))

	updates, err := repo.Watch(ctx, "u1")
	require.NoError(t, err)

	select {
	case upd := <-updates:
		require.NoError(t, upd.Err)
		assert.Len(t, upd.Reminders, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial update")
	}

	require.NoError(t, repo.Delete(ctx, list[0].ID))

	select {
	case upd := <-updates:
		require.NoError(t, upd.Err)
		require.Len(t, upd.Reminders, 1)
		assert.Equal(t, "Late", upd.Reminders[0].Medication)
	case <-time.After(2 * time.Second):
		t.Fatal("no update after delete")
	}

	assert.ErrorIs(t, repo.Delete(ctx, "nope"), reminders.ErrNotFound)
}

func TestReminderRepo_MalformedTimeIsZero(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, CollectionReminders, "r1", map[string]any{"userId": "u1", "medication": "A", "time": "soon"}))

	r, err := NewReminderRepo(s).GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, r.Time.IsZero())
}

func TestRenewalRepo_RoundTripAndNormalize(t *testing.T) {
	s := memory.NewStore()
	repo := NewRenewalRepo(s)
	ctx := context.Background()

	remaining := 12
	refill := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	id, err := repo.Create(ctx, renewals.Item{
		UserID: "u1", Name: "Metformin", Remaining: &remaining, RefillBy: &refill,
		Status: renewals.StatusOK, CreatedAt: fixedClock(), UpdatedAt: fixedClock(),
	})
	require.NoError(t, err)

	at := fixedClock().Add(time.Hour)
	require.NoError(t, repo.UpdateStatus(ctx, id, renewals.StatusPatch{Status: renewals.StatusRequested, UpdatedAt: at, RequestedAt: &at}))

	it, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, renewals.StatusRequested, it.Status)
	require.NotNil(t, it.Remaining)
	assert.Equal(t, 12, *it.Remaining)
	require.NotNil(t, it.RefillBy)
	assert.Equal(t, "2025-03-20", it.RefillBy.Format(dateLayout))
	require.NotNil(t, it.RequestedAt)
	assert.True(t, it.RequestedAt.Equal(at))

	require.NoError(t, s.Put(ctx, CollectionRenewals, "bad", map[string]any{
		"userId": "u1", "remaining": -3, "status": "lost", "refillBy": "someday",
	}))
	bad, err := repo.GetByID(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, renewals.StatusOK, bad.Status)
	require.NotNil(t, bad.Remaining)
	assert.Equal(t, 0, *bad.Remaining)
	assert.Nil(t, bad.RefillBy)
}

func TestRenewalRepo_ClampsOutOfRangeRemaining(t *testing.T) {
	s := memory.NewStore()
	repo := NewRenewalRepo(s)
	ctx := context.Background()

	cases := map[string]struct {
		remaining any
		want      int
	}{
		"huge number":     {remaining: 1e300, want: math.MaxInt},
		"overflow string": {remaining: "1e999", want: math.MaxInt},
		"huge negative":   {remaining: -1e300, want: 0},
		"decimal string":  {remaining: " 7.9 ", want: 7},
		"not a number":    {remaining: "NaN", want: 0},
		"garbage":         {remaining: "lots", want: 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, CollectionRenewals, "x", map[string]any{
				"userId": "u1", "name": "X", "remaining": tc.remaining,
			}))
			it, err := repo.GetByID(ctx, "x")
			require.NoError(t, err)
			if it.Remaining != nil {
				assert.Equal(t, tc.want, *it.Remaining)
			} else {
				assert.Zero(t, tc.want)
			}
		})
	}

	var f flexInt
	require.NoError(t, f.UnmarshalJSON([]byte("1e999")))
	assert.True(t, f.Set)
	assert.Equal(t, math.MaxInt, f.Value)
}

func TestRenewalRepo_ListNewestFirst(t *testing.T) {
	s := memory.NewStore()
	repo := NewRenewalRepo(s)
	ctx := context.Background()

	_, err := repo.Create(ctx, renewals.Item{UserID: "u1", Name: "old", Status: renewals.StatusOK, CreatedAt: fixedClock()})
	require.NoError(t, err)
	_, err = repo.Create(ctx, renewals.Item{UserID: "u1", Name: "new", Status: renewals.StatusOK, CreatedAt: fixedClock().Add(time.Minute)})
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Name)
	assert.Nil(t, list[0].Remaining)
}

func TestProfileRepo_SingleDocument(t *testing.T) {
	s := memory.NewStore()
	repo := NewProfileRepo(s)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, profile.ErrNotFound)

	require.NoError(t, repo.Put(ctx, profile.Profile{Name: "Ana", Age: 40}))
	require.NoError(t, repo.Put(ctx, profile.Profile{Name: "Ana", Age: 41}))

	p, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 41, p.Age)

	docs, err := s.List(ctx, CollectionProfile, byUser("", "", false))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, ProfileID, docs[0].ID)
}

func TestSettingsRepo_UnknownThemeFallsBack(t *testing.T) {
	s := memory.NewStore()
	repo := NewSettingsRepo(s)
	ctx := context.Background()

	_, err := repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, settings.ErrNotFound)

	require.NoError(t, repo.Put(ctx, settings.Settings{UserID: "u1", Theme: settings.ThemeDark}))
	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, got.Theme)

	require.NoError(t, s.Put(ctx, CollectionSettings, "u2", map[string]any{"theme": "neon"}))
	got, err = repo.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeLight, got.Theme)
	assert.Equal(t, "u2", got.UserID)
}

func TestDeviceRepo_SkipsTokenless(t *testing.T) {
	s := memory.NewStore()
	repo := NewDeviceRepo(s)
	ctx := context.Background()

	_, err := repo.Create(ctx, devices.Device{UserID: "u1", Token: "tok-1", CreatedAt: fixedClock()})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, CollectionDevices, "broken", map[string]any{"userId": "u1"}))

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "tok-1", list[0].Token)
}
