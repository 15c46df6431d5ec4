package resilience

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

// WithTimeout runs fn with a context cancelled after timeout. When the limit
// is hit first the result wraps errors.ErrTimeout; a cancelled parent is
// returned as the parent's error. A non-positive timeout disables the limit.
func WithTimeout(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(timeoutCtx)
	}()
	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return apperrors.Newf(apperrors.ErrTimeout, "%s exceeded %v", name, timeout)
		}
		return err
	case <-timeoutCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return apperrors.Newf(apperrors.ErrTimeout, "%s exceeded %v", name, timeout)
	}
}
