package medications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func snapshot(s Status) Medication {
	return Medication{
		ID:        "m1",
		UserID:    "u1",
		Name:      "Aspirin",
		Dose:      100,
		Time:      "08:00",
		Frequency: FrequencyDaily,
		Status:    s,
		Counters:  CountersFor(s),
	}
}

func TestReconcile_SameStatusIsNoop(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusTaken, StatusMissed} {
		m := snapshot(s)
		c, rec, err := Reconcile(s, s, m.Counters, m, today)
		require.NoError(t, err, s)
		assert.Equal(t, m.Counters, c, s)
		assert.Nil(t, rec, s)
	}
}

func TestReconcile_Transitions(t *testing.T) {
	cases := []struct {
		prev, req Status
		want      Counters
	}{
		{StatusPending, StatusTaken, Counters{Taken: 1}},
		{StatusPending, StatusMissed, Counters{Missed: 1}},
		{StatusTaken, StatusMissed, Counters{Missed: 1}},
		{StatusMissed, StatusTaken, Counters{Taken: 1}},
	}

	for _, tc := range cases {
		m := snapshot(tc.prev)
		c, rec, err := Reconcile(tc.prev, tc.req, m.Counters, m, today)
		require.NoError(t, err)
		assert.Equal(t, tc.want, c, "%s -> %s", tc.prev, tc.req)
		assert.LessOrEqual(t, c.Taken+c.Missed, 1)
		assert.Equal(t, 1, c.Taken+c.Missed)

		require.NotNil(t, rec)
		assert.Equal(t, string(tc.req), rec.Status)
		assert.Equal(t, "2026-03-14", rec.Date)
		assert.Equal(t, "m1", rec.MedicationID)
		assert.Equal(t, "Aspirin", rec.Name)
		assert.Equal(t, 100, rec.Dose)
		assert.Equal(t, "u1", rec.UserID)
	}
}

func TestReconcile_CountersAreOverwritten(t *testing.T) {
	// Contadores inconsistentes de entrada: el resultado no acumula.
	m := snapshot(StatusTaken)
	c, _, err := Reconcile(StatusTaken, StatusMissed, Counters{Taken: 3, Missed: 2}, m, today)
	require.NoError(t, err)
	assert.Equal(t, Counters{Missed: 1}, c)
}

func TestReconcile_RejectsPendingAndUnknown(t *testing.T) {
	m := snapshot(StatusTaken)

	_, rec, err := Reconcile(StatusTaken, StatusPending, m.Counters, m, today)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Nil(t, rec)

	_, _, err = Reconcile(StatusTaken, Status("skipped"), m.Counters, m, today)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
