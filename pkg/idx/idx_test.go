package idx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spectrelabs/authgate/pkg/idx"
)

func TestNewIsUniqueAndOrdered(t *testing.T) {
	t.Parallel()

	prev := idx.New()
	for i := 0; i < 1000; i++ {
		next := idx.New()
		require.NotEqual(t, prev, next)
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestNewConcurrent(t *testing.T) {
	t.Parallel()

	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[idx.ID]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := idx.New()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
}

func TestParse(t *testing.T) {
	t.Parallel()

	id := idx.New()
	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	for _, bad := range []string{"", "   ", "not-a-ulid", "0000"} {
		_, err := idx.Parse(bad)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", bad)
	}
}

func TestTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := idx.NewAt(at)
	require.Equal(t, at.UnixMilli(), id.Time().UnixMilli())

	require.True(t, idx.Zero.Time().IsZero())
	require.True(t, idx.Zero.IsZero())
}
