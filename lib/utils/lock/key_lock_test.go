package lock

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKeyLock(t *testing.T) {
	t.Run(`free key check`, func(t *testing.T) {
		l := NewKeyLock()
		called := false
		ok, err := l.WithDelay(context.Background(), "a", time.Second, func() error {
			called = true
			require.True(t, l.IsLocked("a"))
			return errors.New("boom")
		})
		require.True(t, ok)
		require.EqualError(t, err, "boom")
		require.True(t, called)
		require.False(t, l.IsLocked("a"))
	})

	t.Run(`busy key times out check`, func(t *testing.T) {
		l := NewKeyLock()
		release := make(chan struct{})
		started := make(chan struct{})
		go func() {
			_, _ = l.WithDelay(context.Background(), "a", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		ok, err := l.WithDelay(context.Background(), "a", 100*time.Millisecond, func() error {
			t.Fatal("must not run")
			return nil
		})
		require.False(t, ok)
		require.NoError(t, err)

		ok, err = l.WithDelay(context.Background(), "b", 100*time.Millisecond, func() error { return nil })
		require.True(t, ok)
		require.NoError(t, err)

		close(release)
		ok, err = l.WithDelay(context.Background(), "a", time.Second, func() error { return nil })
		require.True(t, ok)
		require.NoError(t, err)
	})

	t.Run(`canceled context check`, func(t *testing.T) {
		l := NewKeyLock()
		l.locks.Store("a", struct{}{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ok, err := l.WithDelay(ctx, "a", time.Second, func() error { return nil })
		require.False(t, ok)
		require.True(t, errors.Is(err, context.Canceled))
	})
}
