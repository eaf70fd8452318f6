package dataimporter

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/database"
	"github.com/travigo/journeyplanner/pkg/dataimporter/manager"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Import GTFS timetables into the timetable store",
		Subcommands: []*cli.Command{
			{
				Name:  "gtfs",
				Usage: "Import a GTFS feed",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "path",
						Usage:    "Path or URL of the GTFS feed, either a zip or a directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "repeat-every",
						Usage:    "Repeat this import every X (Go duration)",
						Required: false,
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					if cfg.Store.Type == "gtfs" {
						log.Fatal().Msg("The gtfs store type is read only, configure a database store to import into")
					}

					repeatEvery := c.String("repeat-every")
					repeat := repeatEvery != ""
					var repeatDuration time.Duration
					if repeat {
						repeatDuration, err = time.ParseDuration(repeatEvery)

						if err != nil {
							return err
						}
					}

					ctx := c.Context

					var store database.Store
					if cfg.Store.Type == "sqlite" {
						store, err = database.CreateSQLite(ctx, cfg.Store.Path)
					} else {
						store, err = database.Open(ctx, cfg.Store)
					}
					if err != nil {
						return err
					}
					defer store.Close()

					for {
						startTime := time.Now()

						err := manager.ImportFeed(ctx, c.String("path"), store)

						if err != nil {
							return err
						}
						if !repeat {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Operation took %s", executionDuration.String())

						waitTime := repeatDuration - executionDuration

						if waitTime.Seconds() > 0 {
							time.Sleep(waitTime)
						}
					}

					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "Check a GTFS feed builds a valid timetable without importing it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "path",
						Usage:    "Path or URL of the GTFS feed",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					_, snapshot, err := manager.LoadFeed(c.Context, c.String("path"))
					if err != nil {
						return err
					}

					log.Info().
						Str("version", snapshot.Version).
						Int("stops", snapshot.StopCount()).
						Int("trips", snapshot.TripCount()).
						Int("stop_times", snapshot.CallCount()).
						Msg("GTFS feed is valid")

					return nil
				},
			},
		},
	}
}
