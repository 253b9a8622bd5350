package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_EmitsOnlyOnChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	results := [][]Document{
		{doc("a", `{}`)},
		{doc("a", `{}`)},
		{doc("a", `{}`), doc("b", `{}`)},
	}

	ch := Poll(ctx, 5*time.Millisecond, func(ctx context.Context) ([]Document, error) {
		mu.Lock()
		defer mu.Unlock()
		i := calls
		if i >= len(results) {
			i = len(results) - 1
		}
		calls++
		return results[i], nil
	})

	first := <-ch
	assert.Len(t, first.Documents, 1)

	select {
	case second := <-ch:
		assert.Len(t, second.Documents, 2, "unchanged poll must not emit")
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after change")
	}
}

func TestPoll_ReportsErrorOnceAndClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	boom := errors.New("permission denied")
	ch := Poll(ctx, 5*time.Millisecond, func(ctx context.Context) ([]Document, error) {
		return nil, boom
	})

	snap := <-ch
	require.ErrorIs(t, snap.Err, boom)

	select {
	case extra := <-ch:
		t.Fatalf("same error must not be re-emitted, got %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	for range ch {
	}
}
