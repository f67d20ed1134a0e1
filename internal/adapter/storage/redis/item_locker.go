package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skin-marketplace/internal/core/ports"

	"github.com/go-redsync/redsync/v4"
	redsyncgoredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrLockHeld is returned when another request holds the item lock.
var ErrLockHeld = ports.ErrItemLockHeld

// ItemLocker implements ports.ItemLocker with a redsync mutex per item.
type ItemLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
	log    zerolog.Logger
}

// NewItemLocker creates a locker whose locks expire after expiry if never released.
func NewItemLocker(client *goredis.Client, expiry time.Duration, log zerolog.Logger) *ItemLocker {
	return &ItemLocker{
		rs:     redsync.New(redsyncgoredis.NewPool(client)),
		expiry: expiry,
		log:    log,
	}
}

func lockKey(itemID uuid.UUID) string {
	return "lock:item:" + itemID.String()
}

// Lock tries a few times to take the item lock and returns its release func.
func (l *ItemLocker) Lock(ctx context.Context, itemID uuid.UUID) (func(context.Context) error, error) {
	key := lockKey(itemID)
	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(3),
		redsync.WithRetryDelay(50*time.Millisecond),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isContention(err) {
			return nil, fmt.Errorf("%w: %s", ErrLockHeld, key)
		}
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}

	l.log.Debug().Str("lock_key", key).Msg("item lock acquired")

	return func(ctx context.Context) error {
		ok, err := mutex.UnlockContext(ctx)
		if err != nil {
			return fmt.Errorf("release %s: %w", key, err)
		}
		if !ok {
			l.log.Warn().Str("lock_key", key).Msg("item lock expired before release")
		}
		return nil
	}, nil
}

func isContention(err error) bool {
	var taken *redsync.ErrTaken
	return errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken)
}
