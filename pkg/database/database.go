package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/dataimporter/formats/gtfs"
)

// Store is the tabular timetable store a snapshot is loaded from
type Store interface {
	LoadSchedule(ctx context.Context) (*gtfs.Schedule, error)
	SaveSchedule(ctx context.Context, schedule *gtfs.Schedule) error
	Close() error
}

const connectAttempts = 5

// Open connects to the store described by cfg, retrying with exponential backoff
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	var store Store

	connect := func() error {
		var err error

		switch cfg.Type {
		case "sqlite":
			store, err = OpenSQLite(ctx, cfg.Path)
		case "postgres":
			store, err = ConnectPostgres(ctx, cfg.ConnectionString)
		case "mongodb":
			store, err = ConnectMongoDB(ctx, cfg.ConnectionString, cfg.Database)
		case "gtfs":
			store, err = OpenFeed(cfg.Path)
		default:
			return backoff.Permanent(fmt.Errorf("unknown store type %q", cfg.Type))
		}

		// A missing file will not appear by retrying
		if errors.Is(err, fs.ErrNotExist) {
			return backoff.Permanent(err)
		}

		return err
	}

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = 500 * time.Millisecond

	err := backoff.RetryNotify(
		connect,
		backoff.WithContext(backoff.WithMaxRetries(retryBackoff, connectAttempts-1), ctx),
		func(err error, wait time.Duration) {
			log.Warn().Err(err).Str("type", cfg.Type).Str("retry", wait.String()).Msg("Failed to open timetable store")
		},
	)
	if err != nil {
		return nil, err
	}

	log.Info().Str("type", cfg.Type).Msg("Opened timetable store")

	return store, nil
}
