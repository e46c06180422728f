package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestFromClassifiesWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("chat: %w", Upstream(errors.New("status 500")))

	got := From(wrapped)
	if got.Status != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", got.Status, http.StatusBadGateway)
	}
	if got.Message != UpstreamErrorMessage {
		t.Fatalf("message = %q", got.Message)
	}
}

func TestFromDefaultsToInternal(t *testing.T) {
	got := From(errors.New("boom"))
	if got.Status != http.StatusInternalServerError || got.Message != SystemErrorMessage {
		t.Fatalf("got %d %q", got.Status, got.Message)
	}
	if From(nil) != nil {
		t.Fatal("From(nil) should be nil")
	}
}

func TestUnconfiguredMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("generate: %w", Unconfigured())
	if !errors.Is(err, ErrUnconfigured) {
		t.Fatal("expected errors.Is to find ErrUnconfigured")
	}
	if From(err).Status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", From(err).Status)
	}
}

func TestWrapRedis(t *testing.T) {
	if WrapRedis(nil) != nil {
		t.Fatal("WrapRedis(nil) should be nil")
	}
	var appErr *AppError
	if !errors.As(WrapRedis(errors.New("conn refused")), &appErr) || appErr.Status != http.StatusBadGateway {
		t.Fatalf("unexpected WrapRedis result: %v", appErr)
	}
}

func TestWrapRedisNil(t *testing.T) {
	var appErr *AppError
	err := WrapRedis(fmt.Errorf("get cursor: %w", redis.Nil))
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Status != http.StatusNotFound || appErr.Message != RedisNotFoundMessage {
		t.Fatalf("got %d %q", appErr.Status, appErr.Message)
	}
}
