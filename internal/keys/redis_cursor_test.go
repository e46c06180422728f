package keys

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	errx "github.com/catalog-chat/server/internal/core/error"
)

// incrCounter implements the INCR subset of redis.Cmdable in memory.
type incrCounter struct {
	redis.Cmdable
	mu     sync.Mutex
	values map[string]int64
	keys   []string
	err    error
}

func newIncrCounter() *incrCounter {
	return &incrCounter{values: map[string]int64{}}
}

func (c *incrCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, key)
	if c.err != nil {
		return redis.NewIntResult(0, c.err)
	}
	c.values[key]++
	return redis.NewIntResult(c.values[key], nil)
}

func TestRedisCursorStartsAtZero(t *testing.T) {
	rdb := newIncrCounter()
	cursor := NewRedisCursor(rdb, "")

	for want := uint64(0); want < 3; want++ {
		got, err := cursor.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("Next() = %d, want %d", got, want)
		}
	}
	if rdb.keys[0] != DefaultCursorKey {
		t.Fatalf("key = %q", rdb.keys[0])
	}
}

func TestRedisCursorRotatesKeys(t *testing.T) {
	r := NewRotator([]string{"A", "B", "C"}, NewRedisCursor(newIncrCounter(), ""))
	ctx := context.Background()

	var got []string
	for i := 0; i < 4; i++ {
		got = append(got, r.Next(ctx))
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "A"}, got); diff != "" {
		t.Fatalf("rotation mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisCursorSharedBetweenRotators(t *testing.T) {
	rdb := newIncrCounter()
	first := NewRotator([]string{"A", "B", "C"}, NewRedisCursor(rdb, "chat:test:cursor"))
	second := NewRotator([]string{"A", "B", "C"}, NewRedisCursor(rdb, "chat:test:cursor"))
	ctx := context.Background()

	got := []string{first.Next(ctx), second.Next(ctx), first.Next(ctx), second.Next(ctx)}
	if diff := cmp.Diff([]string{"A", "B", "C", "A"}, got); diff != "" {
		t.Fatalf("shared rotation mismatch (-want +got):\n%s", diff)
	}
}

func TestRedisCursorWrapsErrors(t *testing.T) {
	rdb := newIncrCounter()
	rdb.err = errors.New("connection refused")

	_, err := NewRedisCursor(rdb, "").Next(context.Background())
	var appErr *errx.AppError
	if !errors.As(err, &appErr) || appErr.Status != http.StatusBadGateway {
		t.Fatalf("unexpected error: %v", err)
	}

	r := NewRotator([]string{"A", "B"}, NewRedisCursor(rdb, ""))
	if got := r.Next(context.Background()); got != "A" {
		t.Fatalf("fallback Next() = %q", got)
	}
}
