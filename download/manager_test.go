package download

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjacob/kangaroo/cert"
	"github.com/sanjacob/kangaroo/errors"
)

func blockingFetcher(started chan<- struct{}) Fetcher {
	var once sync.Once
	return FetchFunc(func(ctx context.Context, number int) (*cert.Record, error) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return nil, ctx.Err()
	})
}

func TestManagerRun(t *testing.T) {
	t.Run("rejects a duplicate running batch", func(t *testing.T) {
		manager := NewManager(nil)
		started := make(chan struct{})

		running, err := NewTask(1, 10, blockingFetcher(started), nil, WithWorkers(1))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- manager.Run(context.Background(), running) }()
		<-started

		duplicate, err := NewTask(1, 10, blockingFetcher(make(chan struct{})), nil)
		require.NoError(t, err)

		err = manager.Run(context.Background(), duplicate)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTaskExists))

		running.Stop()
		require.NoError(t, <-done)
	})

	t.Run("deregisters the batch once finished", func(t *testing.T) {
		manager := NewManager(nil)
		fetcher := FetchFunc(func(ctx context.Context, number int) (*cert.Record, error) {
			return fakeRecord(number), nil
		})

		task, err := NewTask(3, 2, fetcher, nil)
		require.NoError(t, err)
		require.NoError(t, manager.Run(context.Background(), task))

		assert.Equal(t, 0, manager.Running())
		_, ok := manager.Get(3)
		assert.False(t, ok)

		// Same batch can run again after the first finishes
		again, err := NewTask(3, 2, fetcher, nil)
		require.NoError(t, err)
		require.NoError(t, manager.Run(context.Background(), again))
	})

	t.Run("exposes running tasks", func(t *testing.T) {
		manager := NewManager(nil)
		started := make(chan struct{})

		task, err := NewTask(5, 10, blockingFetcher(started), nil, WithWorkers(1))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- manager.Run(context.Background(), task) }()
		<-started

		got, ok := manager.Get(5)
		require.True(t, ok)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, 1, manager.Running())

		task.Stop()
		require.NoError(t, <-done)
	})
}

func TestManagerStopAll(t *testing.T) {
	manager := NewManager(nil)

	var wg sync.WaitGroup
	for batch := 1; batch <= 3; batch++ {
		started := make(chan struct{})
		task, err := NewTask(batch, 10, blockingFetcher(started), nil, WithWorkers(1))
		require.NoError(t, err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.Run(context.Background(), task)
		}()
		<-started
	}
	require.Equal(t, 3, manager.Running())

	manager.StopAll()

	finished := make(chan struct{})
	go func() { wg.Wait(); close(finished) }()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not stop in time")
	}
	assert.Equal(t, 0, manager.Running())
}
