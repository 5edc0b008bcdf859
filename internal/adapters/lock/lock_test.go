package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"fxsync/internal/domain"

	"github.com/bsm/redislock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_ExclusivePerKey(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.TryLock(ctx, "sales-quotation:1")
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "sales-quotation:1")
	require.ErrorIs(t, err, domain.ErrRecalculationInProgress)

	other, err := l.TryLock(ctx, "sales-quotation:2")
	require.NoError(t, err)
	other()

	release()
	release() // second call is a no-op

	again, err := l.TryLock(ctx, "sales-quotation:1")
	require.NoError(t, err)
	again()
}

type MockObtainer struct{ mock.Mock }

func (m *MockObtainer) Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error) {
	args := m.Called(ctx, key, ttl, opt)
	lk, _ := args.Get(0).(*redislock.Lock)
	return lk, args.Error(1)
}

func TestRedisLocker_NotObtainedIsInProgress(t *testing.T) {
	o := new(MockObtainer)
	l := &RedisLocker{client: o, ttl: time.Minute}
	o.On("Obtain", mock.Anything, "lock:sales-quotation:5", time.Minute, (*redislock.Options)(nil)).
		Return(nil, redislock.ErrNotObtained).Once()

	_, err := l.TryLock(context.Background(), "sales-quotation:5")
	require.ErrorIs(t, err, domain.ErrRecalculationInProgress)
	o.AssertExpectations(t)
}

func TestRedisLocker_OtherErrorsAreWrapped(t *testing.T) {
	o := new(MockObtainer)
	l := &RedisLocker{client: o, ttl: time.Minute}
	boom := errors.New("connection refused")
	o.On("Obtain", mock.Anything, "lock:k", time.Minute, (*redislock.Options)(nil)).Return(nil, boom).Once()

	_, err := l.TryLock(context.Background(), "k")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, domain.ErrRecalculationInProgress)
}
