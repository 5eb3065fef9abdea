package cartsync

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Poller retries queued remote writes in the background.
type Poller struct {
	flush    func(ctx context.Context) error
	interval time.Duration
	log      zerolog.Logger
}

func NewPoller(flush func(ctx context.Context) error, interval time.Duration, log zerolog.Logger) *Poller {
	return &Poller{flush: flush, interval: interval, log: log}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.flush(ctx); err != nil && ctx.Err() == nil {
				p.log.Warn().Err(err).Msg("outbox flush failed")
			}
		case <-ctx.Done():
			return
		}
	}
}
