// Package redislock implements domain.RunLocker on Redis so that only one
// settlement run per event executes at a time across all processes.
package redislock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"giftregistry/internal/domain"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another run is never released by us.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the expiry only while the key still holds our token.
var extendScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type locker struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewLocker returns a RunLocker backed by rdb.
func NewLocker(rdb goredis.UniversalClient) domain.RunLocker {
	return &locker{rdb: rdb, prefix: "giftregistry:lock:"}
}

func (l *locker) Acquire(ctx context.Context, key string, ttl time.Duration) (domain.RunLease, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	redisKey := l.prefix + key
	ok, err := l.rdb.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", redisKey, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrLocked, key)
	}
	return &lease{rdb: l.rdb, key: redisKey, token: token}, nil
}

type lease struct {
	rdb   goredis.UniversalClient
	key   string
	token string
}

func (l *lease) Extend(ctx context.Context, ttl time.Duration) error {
	n, err := extendScript.Run(ctx, l.rdb, []string{l.key}, l.token, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis extend %s: %w", l.key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: lease on %s lost", domain.ErrLocked, l.key)
	}
	return nil
}

func (l *lease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("redis release %s: %w", l.key, err)
	}
	return nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
