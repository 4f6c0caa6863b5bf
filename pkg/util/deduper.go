package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper gives MQ handlers at-most-once processing per task event on top of
// the broker's at-least-once delivery.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce tries to take the dedup lock for a handler + event key.
// Returns true if this is the first time the event is processed, false for a
// duplicate. When Redis is unavailable, processing is allowed rather than
// blocked.
func (d *Deduper) AcquireOnce(ctx context.Context, handler, eventKey string) bool {
	key := fmt.Sprintf("dedup:%s:%s", handler, eventKey)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("handler", handler),
				zap.String("event_key", eventKey),
				zap.Error(err),
			)
		}
		return true
	}

	if !ok && d.logger != nil {
		d.logger.Info("Skipped duplicated event",
			zap.String("handler", handler),
			zap.String("event_key", eventKey),
			zap.String("dedup_key", key),
		)
	}

	return ok
}

// Release gives the dedup lock back so a requeued delivery of the same event
// can be processed again.
func (d *Deduper) Release(ctx context.Context, handler, eventKey string) error {
	key := fmt.Sprintf("dedup:%s:%s", handler, eventKey)
	if err := d.rdb.Del(ctx, key).Err(); err != nil {
		if d.logger != nil {
			d.logger.Warn("Failed to release dedup key",
				zap.String("dedup_key", key),
				zap.Error(err),
			)
		}
		return err
	}
	return nil
}
