package persistence

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-request/internal/config"
)

func TestNewRedisDisabled(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{}, zap.NewNop())
	if r.Enabled() {
		t.Fatal("redis should be disabled without an address")
	}
	if err := r.Ping(context.Background()); !errors.Is(err, ErrRedisDisabled) {
		t.Fatalf("expected ErrRedisDisabled, got %v", err)
	}
	r.Close()

	var nilRedis *Redis
	if nilRedis.Enabled() {
		t.Fatal("nil wrapper should report disabled")
	}
}
