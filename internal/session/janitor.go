package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RunJanitor sweeps s every interval until ctx is done. A non-positive
// interval disables sweeping.
func RunJanitor(ctx context.Context, s Store, interval time.Duration) {
	if interval <= 0 {
		return
	}
	logger := zerolog.Ctx(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("session sweep failed")
				continue
			}
			logger.Debug().Int("removed", n).Msg("swept expired sessions")
		}
	}
}
