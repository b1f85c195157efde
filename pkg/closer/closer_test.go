package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloser_LIFO(t *testing.T) {
	c := NewCloser(0)
	var (
		mu    sync.Mutex
		order []int
	)
	for i := 1; i <= 3; i++ {
		c.Add("resource", func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestCloser_CollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.Add("redis", func(ctx context.Context) error { return errors.New("close failed") })
	c.Add("http", func(ctx context.Context) error { return nil })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: close failed")
}

func TestCloser_ClosesOnce(t *testing.T) {
	c := NewCloser(0)
	calls := 0
	c.Add("db", func(ctx context.Context) error { calls++; return nil })

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestCloser_ForcedAfterTimeout(t *testing.T) {
	c := NewCloser(100 * time.Millisecond)
	forced := make(chan struct{}, 1)
	c.Add("first", func(ctx context.Context) error {
		select {
		case forced <- struct{}{}:
		default:
		}
		return nil
	})
	c.Add("stuck", func(ctx context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted")
	assert.Len(t, forced, 1)
}
