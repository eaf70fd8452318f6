package journeyplanner

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

// cachedRide is the stored form of a planned itinerary. Stops and trips are
// rehydrated from the snapshot named in the cache key.
type cachedRide struct {
	TripID         string `json:"trip_id"`
	BoardingIndex  int    `json:"boarding_index"`
	AlightingIndex int    `json:"alighting_index"`
	ServiceDay     int64  `json:"service_day"`
}

func (s Source) cachedItinerary(ctx context.Context, snapshot *timetable.Snapshot, q query.BestRoute, key string) *ctdf.Itinerary {
	value, ok := s.Cache.Get(ctx, key)
	if !ok {
		return nil
	}

	var record cachedRide
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to decode cached route")
		return nil
	}

	trip, ok := snapshot.Trip(record.TripID)
	if !ok {
		return nil
	}
	if record.BoardingIndex < 0 || record.AlightingIndex <= record.BoardingIndex || record.AlightingIndex >= len(trip.Stops) {
		return nil
	}

	serviceDay := time.Unix(record.ServiceDay, 0).In(s.Settings.Location())
	ride := ctdf.NewRideLeg(trip, record.BoardingIndex, record.AlightingIndex, serviceDay)

	log.Debug().Str("key", key).Msg("Using cached route")

	return ctdf.NewDirectItinerary(q.Origin, q.Destination, q.StartDateTime, ride, s.Settings.WalkingSpeed)
}

func (s Source) storeItinerary(ctx context.Context, key string, itinerary *ctdf.Itinerary) {
	if s.Cache == nil {
		return
	}

	ride := itinerary.Ride()
	if ride == nil {
		return
	}

	// Times past 24:00 land on the next calendar day, so recover the service day from the call itself
	serviceDay := ride.DepartureTime.Add(-ride.Trip.Stops[ride.BoardingIndex].DepartureTime.Duration())

	encoded, err := json.Marshal(cachedRide{
		TripID:         ride.Trip.PrimaryIdentifier,
		BoardingIndex:  ride.BoardingIndex,
		AlightingIndex: ride.AlightingIndex,
		ServiceDay:     serviceDay.Unix(),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode route for caching")
		return
	}

	s.Cache.Set(ctx, key, string(encoded))
}
