package service

import (
	"context"
	"time"

	"github.com/supertypo/kaspa-hashrate-app/internal/logger"
)

// SweeperService periodically purges expired cache entries. Reads already
// delete expired rows on access; the sweeper keeps rows for keys nobody
// reads from piling up.
type SweeperService struct {
	cache Cache
	log   *logger.Logger
}

func NewSweeperService(cache Cache, log *logger.Logger) *SweeperService {
	return &SweeperService{cache: cache, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SweeperService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.cache.InvalidateExpired(ctx); n > 0 && s.log != nil {
				s.log.Infow("cache_swept", "removed", n)
			}
		}
	}
}
