package lock

import (
	"context"
	"errors"
	"fmt"
	"fxsync/internal/domain"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
)

type obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

// RedisLocker takes short-lived locks shared by every service instance.
type RedisLocker struct {
	client obtainer
	ttl    time.Duration
}

func NewRedisLocker(client *redislock.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string) (func(), error) {
	lk, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, domain.ErrRecalculationInProgress
		}
		return nil, fmt.Errorf("failed to obtain lock %q: %w", key, err)
	}
	return func() {
		// the caller's context may already be done
		if relErr := lk.Release(context.Background()); relErr != nil && !errors.Is(relErr, redislock.ErrLockNotHeld) {
			logrus.WithError(relErr).WithField("key", key).Warn("failed to release lock")
		}
	}, nil
}

// LocalLocker serializes callers inside this process only.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, domain.ErrRecalculationInProgress
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
