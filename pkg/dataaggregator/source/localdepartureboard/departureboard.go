package localdepartureboard

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

func (s Source) DepartureBoardQuery(ctx context.Context, q query.DepartureBoard) ([]*ctdf.Departure, error) {
	snapshot, err := s.Timetable.Load()
	if err != nil {
		return nil, err
	}

	return Generate(ctx, snapshot, q, s.Settings)
}

// Generate builds the departure board for the stops in q, ordered by departure time and
// capped at q.Count. Departures use the service day of q.StartDateTime in the configured timezone.
func Generate(ctx context.Context, snapshot *timetable.Snapshot, q query.DepartureBoard, settings config.Planner) ([]*ctdf.Departure, error) {
	departureBoard := []*ctdf.Departure{}

	if q.Count <= 0 || len(q.Stops) == 0 {
		return departureBoard, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	currentTime := time.Now()

	window := searchWindow{
		start:      q.StartDateTime,
		serviceDay: ctdf.ServiceDay(q.StartDateTime, settings.Location()),
	}
	window.end, window.bounded = settings.HorizonEnd(q.StartDateTime)

	workers := settings.Workers
	if workers <= 0 {
		workers = 1
	}

	p := pool.NewWithResults[[]*ctdf.Departure]().
		WithContext(ctx).
		WithMaxGoroutines(workers)

	for _, nearbyStop := range q.Stops {
		p.Go(func(ctx context.Context) ([]*ctdf.Departure, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			return stopDepartures(snapshot, nearbyStop, window, q, settings.MaxCallsScannedPerStop), nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	for _, stopBoard := range results {
		departureBoard = append(departureBoard, stopBoard...)
	}

	ctdf.SortDepartures(departureBoard)

	// Once sorted cut off any records higher than our max count
	if len(departureBoard) > q.Count {
		departureBoard = departureBoard[:q.Count]
	}

	log.Debug().
		Int("stops", len(q.Stops)).
		Int("departures", len(departureBoard)).
		Str("Length", time.Since(currentTime).String()).
		Msg("Departure Board generation")

	return departureBoard, nil
}

type searchWindow struct {
	start      time.Time
	serviceDay time.Time

	end     time.Time
	bounded bool
}

func stopDepartures(snapshot *timetable.Snapshot, nearbyStop ctdf.NearbyStop, window searchWindow, q query.DepartureBoard, maxScanned int) []*ctdf.Departure {
	var departures []*ctdf.Departure

	calls := snapshot.Calls(nearbyStop.Stop.PrimaryIdentifier)

	// Calls are ordered by departure time so the first usable one can be found directly
	first := sort.Search(len(calls), func(i int) bool {
		return !calls[i].TripStop().DepartureTime.On(window.serviceDay).Before(window.start)
	})

	scanned := 0
	for _, call := range calls[first:] {
		if len(departures) >= q.Count {
			break
		}
		if maxScanned > 0 && scanned >= maxScanned {
			break
		}
		scanned++

		tripStop := call.TripStop()
		departureTime := tripStop.DepartureTime.On(window.serviceDay)

		if window.bounded && departureTime.After(window.end) {
			break
		}

		// Nobody can board here, either pickup is disabled or the trip terminates at this stop
		if tripStop.NoPickup {
			continue
		}
		nextStop := call.Trip.Next(call.Index)
		if nextStop == nil {
			continue
		}

		if q.Destination != nil && !headingTowards(tripStop.Stop, nextStop.Stop, *q.Destination) {
			continue
		}

		departures = append(departures, &ctdf.Departure{
			Trip:            call.Trip,
			Stop:            tripStop.Stop,
			StopIndex:       call.Index,
			ServiceDay:      window.serviceDay,
			Time:            departureTime,
			ArrivalTime:     tripStop.ArrivalTime.On(window.serviceDay),
			WalkingDistance: nearbyStop.Distance,
		})
	}

	return departures
}

// headingTowards reports whether the trip's next stop is strictly closer to destination than the current one
func headingTowards(current *ctdf.Stop, next *ctdf.Stop, destination ctdf.Location) bool {
	return next.Location.Distance(destination) < current.Location.Distance(destination)
}
