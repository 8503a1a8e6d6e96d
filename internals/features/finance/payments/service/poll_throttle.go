package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PollThrottle membatasi retrieve ke gateway per payment. Allow=false berarti
// record tersimpan dikembalikan tanpa panggilan keluar.
type PollThrottle interface {
	Allow(ctx context.Context, paymentID uuid.UUID) bool
}

type NoopThrottle struct{}

func (NoopThrottle) Allow(context.Context, uuid.UUID) bool { return true }

type RedisThrottle struct {
	rdb    *redis.Client
	window time.Duration
}

func NewRedisThrottle(rdb *redis.Client, window time.Duration) *RedisThrottle {
	return &RedisThrottle{rdb: rdb, window: window}
}

// Allow fail-open: redis bermasalah tidak boleh memblokir status check.
func (t *RedisThrottle) Allow(ctx context.Context, paymentID uuid.UUID) bool {
	if t == nil || t.rdb == nil || t.window <= 0 {
		return true
	}
	ok, err := t.rdb.SetNX(ctx, "payment:poll:"+paymentID.String(), 1, t.window).Result()
	if err != nil {
		log.Printf("[PAYMENT] poll throttle unavailable: %v", err)
		return true
	}
	return ok
}
