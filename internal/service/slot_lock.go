package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthcare-portal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

var ErrBookingBusy = apperror.Conflict("another booking for this provider is in progress, please retry")

const lockRetryInterval = 50 * time.Millisecond

// SlotLocker serializes bookings that touch the same provider calendar day.
type SlotLocker interface {
	WithProviderDayLock(ctx context.Context, providerID uuid.UUID, day time.Time, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client  *redis.Client
	log     *logrus.Logger
	ttl     time.Duration
	wait    time.Duration
	breaker *gobreaker.CircuitBreaker[bool]
}

// NewRedisSlotLocker locks on a per provider and day Redis key. When Redis
// is failing the breaker opens and bookings run unlocked; the unique index on
// scheduled slots still rejects double bookings in that mode.
func NewRedisSlotLocker(client *redis.Client, log *logrus.Logger, ttl, wait time.Duration) SlotLocker {
	breaker := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:        "booking-lock",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker %s changed from %s to %s", name, from, to)
		},
	})

	return &redisSlotLocker{
		client:  client,
		log:     log,
		ttl:     ttl,
		wait:    wait,
		breaker: breaker,
	}
}

func lockKey(providerID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("lock:booking:%s:%s", providerID.String(), day.Format("2006-01-02"))
}

func (l *redisSlotLocker) WithProviderDayLock(ctx context.Context, providerID uuid.UUID, day time.Time, fn func(ctx context.Context) error) error {
	key := lockKey(providerID, day)
	token := uuid.NewString()

	acquired, err := l.acquire(ctx, key, token)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		l.log.Warnf("Booking lock unavailable, continuing without it: %+v", err)
		return fn(ctx)
	}
	if !acquired {
		return ErrBookingBusy
	}

	defer func() {
		// The caller context may already be done; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := l.release(releaseCtx, key, token); err != nil {
			l.log.Warnf("Failed to release booking lock %s: %+v", key, err)
		}
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

// acquire retries SET NX until the lock is free or the wait budget runs out.
func (l *redisSlotLocker) acquire(ctx context.Context, key, token string) (bool, error) {
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.breaker.Execute(func() (bool, error) {
			return l.client.SetNX(ctx, key, token, l.ttl).Result()
		})
		if err != nil || ok {
			return ok, err
		}
		if time.Now().Add(lockRetryInterval).After(deadline) {
			return false, nil
		}

		timer := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

type noopSlotLocker struct{}

// NewNoopSlotLocker runs every booking unlocked.
func NewNoopSlotLocker() SlotLocker {
	return noopSlotLocker{}
}

func (noopSlotLocker) WithProviderDayLock(ctx context.Context, _ uuid.UUID, _ time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
