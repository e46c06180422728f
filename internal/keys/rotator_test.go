package keys

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRotatorWrapsAround(t *testing.T) {
	r := NewRotator([]string{"A", "B", "C"}, nil)
	ctx := context.Background()

	var got []string
	for i := 0; i < 4; i++ {
		got = append(got, r.Next(ctx))
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "A"}, got); diff != "" {
		t.Fatalf("rotation mismatch (-want +got):\n%s", diff)
	}
}

func TestRotatorEmptyReturnsSentinel(t *testing.T) {
	for _, keys := range [][]string{nil, {}, {"", "  "}} {
		r := NewRotator(keys, nil)
		if r.Configured() {
			t.Fatalf("%q: expected unconfigured rotator", keys)
		}
		for i := 0; i < 3; i++ {
			if got := r.Next(context.Background()); got != NoCredential {
				t.Fatalf("%q: Next() = %q, want sentinel", keys, got)
			}
		}
	}
}

func TestRotatorConcurrentUseIsBalanced(t *testing.T) {
	r := NewRotator([]string{"k1", "k2"}, nil)
	const calls = 1000

	var (
		mu     sync.Mutex
		counts = map[string]int{}
		wg     sync.WaitGroup
	)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k := r.Next(context.Background())
			mu.Lock()
			counts[k]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if counts["k1"] != calls/2 || counts["k2"] != calls/2 {
		t.Fatalf("unbalanced rotation: %v", counts)
	}
}

type failingCursor struct{}

func (failingCursor) Next(context.Context) (uint64, error) {
	return 0, errors.New("redis down")
}

func TestRotatorFallsBackWhenCursorFails(t *testing.T) {
	r := NewRotator([]string{"A", "B"}, failingCursor{})
	ctx := context.Background()

	got := []string{r.Next(ctx), r.Next(ctx), r.Next(ctx)}
	if diff := cmp.Diff([]string{"A", "B", "A"}, got); diff != "" {
		t.Fatalf("fallback rotation mismatch (-want +got):\n%s", diff)
	}
}
