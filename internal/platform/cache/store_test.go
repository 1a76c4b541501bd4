package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "team:list", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errors.New("unexpected cached value")
			}
		}()
	}
	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := NewStoreWithClock(time.Minute, clock)
	ctx := context.Background()

	store.Set(ctx, "season:year:2025", "laliga-2025")
	_, ok := store.Get(ctx, "season:year:2025")
	require.True(t, ok)

	clock.Advance(2 * time.Minute)
	_, ok = store.Get(ctx, "season:year:2025")
	assert.False(t, ok, "entry should expire after ttl")
}

func TestStore_LoaderErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	calls := 0

	_, err := Load(ctx, store, "team:id:x", func(context.Context) (string, error) {
		calls++
		return "", errors.New("db down")
	})
	require.Error(t, err)

	got, err := Load(ctx, store, "team:id:x", func(context.Context) (string, error) {
		calls++
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, 2, calls)
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "team:id:a", 1)
	store.Set(ctx, "team:id:b", 2)
	store.Set(ctx, "season:list", 3)

	store.DeletePrefix(ctx, "team:")

	_, okA := store.Get(ctx, "team:id:a")
	_, okSeason := store.Get(ctx, "season:list")
	assert.False(t, okA)
	assert.True(t, okSeason)
}
