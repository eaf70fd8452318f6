package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/kr/pretty"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/global"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/database"
	"github.com/travigo/journeyplanner/pkg/timetable"
	"github.com/urfave/cli/v2"
)

var routeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "from",
		Usage:    "start coordinates as lat,lon",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "to",
		Usage:    "destination coordinates as lat,lon",
		Required: true,
	},
	&cli.TimestampFlag{
		Name:   "start-time",
		Usage:  "RFC3339 start time, defaults to now",
		Layout: time.RFC3339,
	},
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "planner",
		Usage: "Run journey queries against the configured timetable",
		Subcommands: []*cli.Command{
			{
				Name:  "best-route",
				Usage: "find the best direct route between two points",
				Flags: append([]cli.Flag{
					&cli.Float64Flag{
						Name:  "max-walk",
						Usage: "maximum walking distance at each end in meters",
					},
				}, routeFlags...),
				Action: func(c *cli.Context) error {
					return withAggregator(c, func(cfg *config.Config, aggregator *dataaggregator.Aggregator) error {
						origin, destination, startTime, err := routeArguments(c)
						if err != nil {
							return err
						}

						maxWalk := cfg.Planner.DefaultMaxWalkMeters
						if c.IsSet("max-walk") {
							maxWalk = c.Float64("max-walk")
						}

						itinerary, err := dataaggregator.Lookup[*ctdf.Itinerary](c.Context, aggregator, query.BestRoute{
							Origin:        origin,
							Destination:   destination,
							StartDateTime: startTime,
							MaxWalkMeters: maxWalk,
						})
						if err != nil {
							return err
						}

						printItinerary(itinerary)
						return nil
					})
				},
			},
			{
				Name:  "departures",
				Usage: "list departures near a point heading towards a destination",
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "number of departures",
					},
					&cli.Float64Flag{
						Name:  "radius",
						Usage: "search radius around the start in meters",
					},
				}, routeFlags...),
				Action: func(c *cli.Context) error {
					return withAggregator(c, func(cfg *config.Config, aggregator *dataaggregator.Aggregator) error {
						origin, destination, startTime, err := routeArguments(c)
						if err != nil {
							return err
						}

						limit := cfg.Planner.DefaultDepartureCount
						if c.IsSet("limit") {
							limit = c.Int("limit")
						}
						radius := cfg.Planner.DefaultRadiusMeters
						if c.IsSet("radius") {
							radius = c.Float64("radius")
						}

						nearbyStops, err := dataaggregator.Lookup[[]ctdf.NearbyStop](c.Context, aggregator, query.NearbyStops{
							Location:     origin,
							RadiusMeters: radius,
						})
						if err != nil {
							return err
						}

						departures, err := dataaggregator.Lookup[[]*ctdf.Departure](c.Context, aggregator, query.DepartureBoard{
							Stops:         nearbyStops,
							Count:         limit,
							StartDateTime: startTime,
							Destination:   &destination,
						})
						if err != nil {
							return err
						}

						for _, departure := range departures {
							fmt.Printf("%s  %-6s %-30s from %s (%.0fm)\n",
								departure.Time.Format(time.RFC3339),
								departure.RouteRef(),
								departure.Headsign(),
								departure.Stop.PrimaryName,
								departure.WalkingDistance,
							)
						}
						return nil
					})
				},
			},
			{
				Name:  "trip",
				Usage: "print the stops of a trip",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "trip identifier",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return withAggregator(c, func(cfg *config.Config, aggregator *dataaggregator.Aggregator) error {
						trip, err := dataaggregator.Lookup[*ctdf.Trip](c.Context, aggregator, query.Trip{
							PrimaryIdentifier: c.String("id"),
						})
						if err != nil {
							return err
						}

						pretty.Println(trip)
						return nil
					})
				},
			},
		},
	}
}

func withAggregator(c *cli.Context, fn func(cfg *config.Config, aggregator *dataaggregator.Aggregator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	holder, err := loadTimetable(c.Context, cfg)
	if err != nil {
		return err
	}

	return fn(cfg, global.Setup(holder, cfg.Planner))
}

func loadTimetable(ctx context.Context, cfg *config.Config) (*timetable.Holder, error) {
	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	holder := timetable.NewHolder(nil)
	if err := holder.Reload(ctx, store); err != nil {
		return nil, err
	}

	return holder, nil
}

func routeArguments(c *cli.Context) (ctdf.Location, ctdf.Location, time.Time, error) {
	origin, err := ctdf.ParseLocation(c.String("from"))
	if err != nil {
		return ctdf.Location{}, ctdf.Location{}, time.Time{}, fmt.Errorf("from: %w", err)
	}
	destination, err := ctdf.ParseLocation(c.String("to"))
	if err != nil {
		return ctdf.Location{}, ctdf.Location{}, time.Time{}, fmt.Errorf("to: %w", err)
	}

	startTime := time.Now()
	if timestamp := c.Timestamp("start-time"); timestamp != nil {
		startTime = *timestamp
	}

	return origin, destination, startTime, nil
}

func printItinerary(itinerary *ctdf.Itinerary) {
	fmt.Printf("Total %s (wait %s), departs %s arrives %s\n",
		itinerary.TotalTravelTime,
		itinerary.WaitTime,
		itinerary.DepartureTime.Format(time.RFC3339),
		itinerary.ArrivalTime.Format(time.RFC3339),
	)

	for _, leg := range itinerary.Legs {
		switch leg := leg.(type) {
		case *ctdf.WalkLeg:
			fmt.Printf("  walk  %.0fm %s\n", leg.Distance, leg.Duration)
		case *ctdf.RideLeg:
			fmt.Printf("  ride  %s %s: %s -> %s, %d intermediate stops, %s\n",
				leg.Trip.RouteRef,
				leg.Trip.Headsign,
				leg.From().PrimaryName,
				leg.To().PrimaryName,
				leg.IntermediateStops(),
				leg.TravelTime(),
			)
		}
	}

	pretty.Println(itinerary.Ride().Calls())
}
