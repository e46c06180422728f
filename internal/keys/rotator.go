package keys

import (
	"context"
	"strings"
	"sync/atomic"

	logx "github.com/catalog-chat/server/pkg/logger"
)

// NoCredential is returned by Next when no keys are configured.
const NoCredential = ""

// Cursor hands out monotonically increasing positions. Implementations may
// be shared between processes.
type Cursor interface {
	Next(ctx context.Context) (uint64, error)
}

// LocalCursor is an in-process atomic counter.
type LocalCursor struct {
	n atomic.Uint64
}

// Next returns 0, 1, 2, ... across concurrent callers without gaps.
func (c *LocalCursor) Next(context.Context) (uint64, error) {
	return c.n.Add(1) - 1, nil
}

// Rotator cycles through a fixed list of API keys, one per call, wrapping
// around after the last.
type Rotator struct {
	keys     []string
	cursor   Cursor
	fallback LocalCursor
}

// NewRotator drops blank keys. A nil cursor uses an in-process counter.
func NewRotator(keys []string, cursor Cursor) *Rotator {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	r := &Rotator{keys: cleaned, cursor: cursor}
	if r.cursor == nil {
		r.cursor = &r.fallback
	}
	return r
}

// Configured reports whether at least one key is available.
func (r *Rotator) Configured() bool {
	return len(r.keys) > 0
}

// Len returns the number of usable keys.
func (r *Rotator) Len() int {
	return len(r.keys)
}

// Next returns the next key, or NoCredential when none are configured.
// If a shared cursor fails, the in-process counter is used for this call.
func (r *Rotator) Next(ctx context.Context) string {
	if len(r.keys) == 0 {
		return NoCredential
	}
	n, err := r.cursor.Next(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("shared key cursor unavailable, rotating locally")
		n, _ = r.fallback.Next(ctx)
	}
	return r.keys[n%uint64(len(r.keys))]
}
