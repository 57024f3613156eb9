//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package migration

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
	"github.com/weaviate/appendlog-migrator/usecases/monitoring"
	"golang.org/x/time/rate"
)

// RetryPolicy bounds the retries of a single source fetch.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      5,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// After MaxRetries the returned backoff.BackOff returns Stop. It also stops
// once ctx is done.
func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.MaxInterval = p.MaxInterval
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(p.MaxRetries)), ctx)
}

// isTransient reports whether a failed fetch may succeed when repeated.
// Missing objects and data shape errors are permanent.
func isTransient(err error) bool {
	switch {
	case errors.Is(err, migration.ErrObjectNotFound):
		return false
	case migration.IsMalformedRecord(err), migration.IsMalformedIdentifier(err):
		return false
	case errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}

// NewLimiter returns a fetch rate limiter, perSecond <= 0 means unlimited.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// fetcher retrieves source objects with a per attempt timeout, rate limiting
// and retries of transient errors.
type fetcher struct {
	store   SourceStore
	bucket  string
	timeout time.Duration
	retry   RetryPolicy
	limiter *rate.Limiter
	logger  logrus.FieldLogger
	metrics *monitoring.MigrationMetrics
}

func (f *fetcher) fetch(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	attempt := func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		b, err := f.store.GetObject(attemptCtx, f.bucket, key)
		if err != nil {
			if ctx.Err() != nil || !isTransient(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		data = b
		return nil
	}

	notify := func(err error, wait time.Duration) {
		f.metrics.FetchRetried()
		f.logger.WithFields(logrus.Fields{
			"action": "fetch_retry",
			"key":    key,
			"wait":   wait,
		}).WithError(err).Debug("retrying source fetch")
	}

	if err := backoff.RetryNotify(attempt, f.retry.newBackOff(ctx), notify); err != nil {
		return nil, migration.NewErrFetch(errors.Wrapf(err, "get %q from bucket %q", key, f.bucket))
	}

	return data, nil
}
