package backoff

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/errors"
)

// Policy is the shared bounded-retry policy applied at every saga step that
// talks to an external collaborator. Only transient errors are retried;
// validation, conflict and decline errors fail on the first attempt.
type Policy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: time.Second,
		MaxInterval:     4 * time.Second,
	}
}

func (p Policy) Do(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0

	retries := uint64(0)
	if p.MaxAttempts > 0 {
		retries = p.MaxAttempts - 1
	}

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !errors.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithMaxRetries(backoff.WithContext(b, ctx), retries))
}
