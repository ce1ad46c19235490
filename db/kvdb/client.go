package kvdb

import (
	"context"
	"time"
)

// Client is the key-value backend of the shared upload throttle
type Client interface {
	Init(ctx context.Context) error
	Close() error
	GetConf() *Conf

	// Incr increments an integer counter and returns the new value.
	// A counter created by this call expires after expiration (0 = never).
	Incr(ctx context.Context, key string, expiration time.Duration) (int64, error)
}
