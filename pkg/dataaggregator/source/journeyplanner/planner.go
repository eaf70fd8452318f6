package journeyplanner

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/localdepartureboard"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/nearbystops"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

func (s Source) BestRouteQuery(ctx context.Context, q query.BestRoute) (*ctdf.Itinerary, error) {
	snapshot, err := s.Timetable.Load()
	if err != nil {
		return nil, err
	}

	cacheKey := snapshot.Version + "/" + q.CacheKey()
	if itinerary := s.cachedItinerary(ctx, snapshot, q, cacheKey); itinerary != nil {
		return itinerary, nil
	}

	if s.Settings.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Settings.QueryTimeout)
		defer cancel()
	}

	itinerary, err := Plan(ctx, snapshot, q, s.Settings)
	if err != nil {
		return nil, err
	}

	s.storeItinerary(ctx, cacheKey, itinerary)

	return itinerary, nil
}

// Plan finds the best direct itinerary from q.Origin to q.Destination. Only single ride
// itineraries are considered, a route needing a transfer is reported as not found.
func Plan(ctx context.Context, snapshot *timetable.Snapshot, q query.BestRoute, settings config.Planner) (*ctdf.Itinerary, error) {
	if !q.Origin.Valid() {
		return nil, &ctdf.InputError{Parameter: "start_coordinates", Reason: "must be a valid 'lat,lon' pair"}
	}
	if !q.Destination.Valid() {
		return nil, &ctdf.InputError{Parameter: "end_coordinates", Reason: "must be a valid 'lat,lon' pair"}
	}

	currentTime := time.Now()

	boardingCandidates := nearbystops.NearestStops(snapshot, q.Origin, q.MaxWalkMeters, settings.CandidateStops)
	alightingCandidates := nearbystops.NearestStops(snapshot, q.Destination, q.MaxWalkMeters, settings.CandidateStops)

	if len(boardingCandidates) == 0 || len(alightingCandidates) == 0 {
		return nil, noRoute()
	}

	alightingStops := map[string]bool{}
	for _, nearbyStop := range alightingCandidates {
		alightingStops[nearbyStop.Stop.PrimaryIdentifier] = true
	}

	destination := q.Destination
	departures, err := localdepartureboard.Generate(ctx, snapshot, query.DepartureBoard{
		Stops:         boardingCandidates,
		Count:         settings.DepartureLimit,
		StartDateTime: q.StartDateTime,
		Destination:   &destination,
	}, settings)
	if err != nil {
		// Out of time before any ride option could be listed
		if ctx.Err() != nil {
			return nil, noRoute()
		}
		return nil, err
	}

	var best *ctdf.Itinerary
	considered := 0

	for _, departure := range departures {
		if ctx.Err() != nil {
			log.Debug().Err(ctx.Err()).Msg("Route search budget exhausted")
			break
		}

		// Departures are in time order so no later one can beat the best on waiting alone
		if best != nil && departure.Time.Sub(q.StartDateTime) > best.TotalTravelTime {
			break
		}

		alightingIndex := alightingIndex(departure.Trip, departure.StopIndex, alightingStops)
		if alightingIndex < 0 {
			continue
		}
		considered++

		ride := ctdf.NewRideLeg(departure.Trip, departure.StopIndex, alightingIndex, departure.ServiceDay)
		itinerary := ctdf.NewDirectItinerary(q.Origin, q.Destination, q.StartDateTime, ride, settings.WalkingSpeed)

		if best == nil || better(itinerary, best) {
			best = itinerary
		}
	}

	log.Debug().
		Int("boarding", len(boardingCandidates)).
		Int("alighting", len(alightingCandidates)).
		Int("departures", len(departures)).
		Int("considered", considered).
		Bool("found", best != nil).
		Str("Length", time.Since(currentTime).String()).
		Msg("Best route search")

	if best == nil {
		return nil, noRoute()
	}

	return best, nil
}

// alightingIndex returns the first call after boardingIndex at one of the alighting stops
// that allows drop off, or -1 if the trip never reaches one
func alightingIndex(trip *ctdf.Trip, boardingIndex int, alightingStops map[string]bool) int {
	for index := boardingIndex + 1; index < len(trip.Stops); index++ {
		tripStop := trip.Stops[index]
		if tripStop.NoDropOff {
			continue
		}

		if alightingStops[tripStop.Stop.PrimaryIdentifier] {
			return index
		}
	}

	return -1
}

// better orders itineraries by total travel time, then arrival, then intermediate stops.
// Trip and boarding stop identifiers make the choice deterministic.
func better(candidate *ctdf.Itinerary, current *ctdf.Itinerary) bool {
	if candidate.TotalTravelTime != current.TotalTravelTime {
		return candidate.TotalTravelTime < current.TotalTravelTime
	}
	if !candidate.ArrivalTime.Equal(current.ArrivalTime) {
		return candidate.ArrivalTime.Before(current.ArrivalTime)
	}

	candidateRide := candidate.Ride()
	currentRide := current.Ride()

	if candidateRide.IntermediateStops() != currentRide.IntermediateStops() {
		return candidateRide.IntermediateStops() < currentRide.IntermediateStops()
	}
	if c := strings.Compare(candidateRide.Trip.PrimaryIdentifier, currentRide.Trip.PrimaryIdentifier); c != 0 {
		return c < 0
	}

	return candidateRide.From().PrimaryIdentifier < currentRide.From().PrimaryIdentifier
}

func noRoute() error {
	return &ctdf.NotFoundError{Resource: "Route"}
}
