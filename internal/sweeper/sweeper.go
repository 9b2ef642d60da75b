package sweeper

import (
	"context"
	"time"

	"github.com/serroba/shortlink/internal/link"
	"go.uber.org/zap"
)

// Sweeper periodically removes expired links from store and cache. A missed
// or failed sweep is harmless: resolution checks expiry on every read, so
// expired links are never served in the meantime.
type Sweeper struct {
	service  *link.Service
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a sweeper running at the given interval.
func New(service *link.Service, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. The first sweep runs one interval after
// start, not immediately.
func (s *Sweeper) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	go s.run(ctx)

	return nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.service.Sweep(ctx)
			if err != nil {
				s.logger.Error("periodic sweep failed", zap.Error(err))

				continue
			}

			s.logger.Debug("periodic sweep finished", zap.Int("removed", removed))
		}
	}
}

// Shutdown stops the sweep loop and waits for it to exit.
func (s *Sweeper) Shutdown() error {
	if s.cancel != nil {
		s.cancel()
	}

	<-s.done

	return nil
}
