package mediator

import (
	"context"
	"log/slog"
	"time"
)

// defaultSlowThreshold bounds how long a request may take before the
// performance stage logs a warning.
const defaultSlowThreshold = 500 * time.Millisecond

// newPerformanceBehavior times the whole inner chain, validation included.
// It never alters the response and never swallows an error.
func newPerformanceBehavior[T any](log *slog.Logger, threshold time.Duration) Behavior[T] {
	return func(next Pipeline[T]) Pipeline[T] {
		return func(ctx context.Context, req Request) (Result[T], error) {
			start := time.Now()
			res, err := next(ctx, req)
			if elapsed := time.Since(start); elapsed > threshold {
				log.WarnContext(ctx, "slow request",
					slog.String("request", req.RequestName()),
					slog.Duration("elapsed", elapsed),
					slog.Duration("threshold", threshold),
				)
			}
			return res, err
		}
	}
}
