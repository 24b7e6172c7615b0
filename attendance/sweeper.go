package attendance

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval matches the retention policy: old months only need to
// disappear eventually, so a weekly pass is plenty.
const DefaultSweepInterval = 7 * 24 * time.Hour

// StartSweeper launches a background goroutine that periodically discards
// attendance data from previous months. Failures are logged and retried on
// the next tick; the sweeper never takes the process down.
func StartSweeper(svc *Service, interval time.Duration, log *zap.SugaredLogger) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		for {
			// Sleep first to avoid racing schema setup at startup
			time.Sleep(interval)

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := svc.Sweep(ctx, time.Now()); err != nil {
				log.Warnf("retention sweep failed: %v", err)
			} else {
				log.Debug("retention sweep completed")
			}
			cancel()
		}
	}()
}
