package api

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/api/routes"
	"github.com/travigo/journeyplanner/pkg/api/stats"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/global"
	"github.com/travigo/journeyplanner/pkg/database"
	"github.com/travigo/journeyplanner/pkg/elastic_client"
	"github.com/travigo/journeyplanner/pkg/redis_client"
	"github.com/travigo/journeyplanner/pkg/timetable"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the journey planner web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					ctx := c.Context

					store, err := database.Open(ctx, cfg.Store)
					if err != nil {
						return err
					}
					defer store.Close()

					holder := timetable.NewHolder(nil)
					if err := holder.Reload(ctx, store); err != nil {
						return err
					}

					if err := redis_client.Connect(ctx); err != nil {
						log.Warn().Err(err).Msg("Failed to connect to redis, route caching disabled")
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}
					defer elastic_client.WaitUntilQueueEmpty()

					metrics := stats.NewCollector()
					if snapshot, err := holder.Load(); err == nil {
						metrics.ObserveSnapshot(snapshot)
					}

					env := &routes.Environment{
						Config:     cfg,
						Timetable:  holder,
						Aggregator: global.Setup(holder, cfg.Planner),
						Metrics:    metrics,
					}

					go reloadOnSignal(ctx, holder, store, metrics)

					log.Info().Str("listen", c.String("listen")).Strs("cities", cfg.SupportedCities).Msg("Starting web api")

					return SetupServer(c.String("listen"), env)
				},
			},
		},
	}
}

// reloadOnSignal rebuilds the timetable from store on every SIGHUP. A failed reload keeps the current snapshot.
func reloadOnSignal(ctx context.Context, holder *timetable.Holder, store database.Store, metrics *stats.Collector) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP)
	defer signal.Stop(signals)

	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			log.Info().Msg("Reloading timetable")

			err := holder.Reload(ctx, store)
			metrics.ObserveReload(err)

			if err != nil {
				log.Error().Err(err).Msg("Failed to reload timetable, keeping current snapshot")
				continue
			}

			if snapshot, err := holder.Load(); err == nil {
				metrics.ObserveSnapshot(snapshot)
			}
		}
	}
}
