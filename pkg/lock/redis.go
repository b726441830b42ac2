package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"rideadmin/pkg/logger"
)

// ErrNotAcquired is returned when the lock is still held after the wait timeout.
var ErrNotAcquired = errors.New("lock not acquired")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis implements Locker with SET NX PX so several server instances
// sharing one database serialise on the same keys.
type Redis struct {
	client *redis.Client
	log    logger.ILogger
	prefix string
	ttl    time.Duration
	retry  time.Duration
	wait   time.Duration
}

func NewRedis(client *redis.Client, log logger.ILogger) *Redis {
	return &Redis{
		client: client,
		log:    log,
		prefix: "rideadmin:lock:",
		ttl:    10 * time.Second,
		retry:  50 * time.Millisecond,
		wait:   5 * time.Second,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	k := r.prefix + key

	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	for {
		ok, err := r.client.SetNX(ctx, k, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, waitErr(ctx)
			}
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, waitErr(ctx)
		case <-time.After(r.retry):
		}
	}

	return func() {
		// The caller's context may already be cancelled.
		relCtx, relCancel := context.WithTimeout(context.Background(), time.Second)
		defer relCancel()
		if err := releaseScript.Run(relCtx, r.client, []string{k}, token).Err(); err != nil {
			r.log.Warning("failed to release redis lock", logger.String("key", k), logger.Error(err))
		}
	}, nil
}

func waitErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrNotAcquired
	}
	return ctx.Err()
}
