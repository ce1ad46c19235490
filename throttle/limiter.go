package throttle

import (
	"context"
	"time"
)

// Limiter decides whether the client identified by key may proceed.
// An error means the decision could not be made.
type Limiter interface {
	Allow(ctx context.Context, key string, now time.Time) (bool, error)
}

// Unlimited allows everything
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string, time.Time) (bool, error) { return true, nil }
