package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

const (
	gcInterval = 10 * time.Minute
	gcRatio    = 0.5
)

// RunGC reclaims value log space every few minutes until ctx is cancelled.
// In-memory databases have no value log and return immediately.
func RunGC(ctx context.Context, db *badger.DB, log zerolog.Logger) {
	if db.Opts().InMemory {
		return
	}

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := collect(db); err != nil {
				log.Warn().Err(err).Msg("value log gc failed")
			}
		}
	}
}

func collect(db *badger.DB) error {
	for {
		err := db.RunValueLogGC(gcRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("db.RunValueLogGC: %w", err)
		}
	}
}
