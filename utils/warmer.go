package utils

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartPuzzleWarmer runs fn once immediately and then every interval until ctx
// is cancelled. Failures are logged; the next tick tries again.
func StartPuzzleWarmer(ctx context.Context, interval time.Duration, fn func(context.Context) error) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := fn(runCtx); err != nil && ctx.Err() == nil {
				Logger.Warn("puzzle warmer failed", zap.Error(err))
			}
			cancel()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
