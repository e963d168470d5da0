package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

// LoginThrottle counts login attempts per username in a fixed window.
// Key format: <namespace>:login_attempts:<username>
type LoginThrottle struct {
	client    *redis.Client
	namespace string
	max       int64
	window    time.Duration
}

var _ ports.LoginThrottle = (*LoginThrottle)(nil)

func NewLoginThrottle(client *redis.Client, namespace string, maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{client: client, namespace: namespace, max: int64(maxAttempts), window: window}
}

// Check records an attempt and fails once more than max attempts happened in
// the current window. INCR and EXPIRE NX run in one MULTI/EXEC, so a counter
// never outlives its window, including one left behind without a TTL.
func (t *LoginThrottle) Check(ctx context.Context, username string) error {
	key := t.key(username)

	var incr *redis.IntCmd
	_, err := t.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, t.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if incr.Val() > t.max {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (t *LoginThrottle) Reset(ctx context.Context, username string) error {
	return t.client.Del(ctx, t.key(username)).Err()
}

// Ping reports whether the throttle backend is reachable.
func (t *LoginThrottle) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

func (t *LoginThrottle) key(username string) string {
	return fmt.Sprintf("%s:login_attempts:%s", t.namespace, username)
}
