package databaselookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source"
	"github.com/travigo/journeyplanner/pkg/timetable"
	"github.com/travigo/journeyplanner/pkg/timetable/timetabletest"
)

func TestTripQuery(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)

	trip, err := TripQuery(snapshot, query.Trip{PrimaryIdentifier: "TRIP_2"})
	require.NoError(t, err)
	require.Len(t, trip.Stops, 3)

	var names []string
	for i, tripStop := range trip.Stops {
		names = append(names, tripStop.Stop.PrimaryName)
		if i > 0 {
			assert.GreaterOrEqual(t, tripStop.ArrivalTime, trip.Stops[i-1].DepartureTime)
		}
	}
	assert.Equal(t, []string{"Stop B", "Stop A", "Stop W"}, names)

	_, err = TripQuery(snapshot, query.Trip{PrimaryIdentifier: "TRIP_404"})
	assert.ErrorIs(t, err, ctdf.ErrNotFound)
	assert.Equal(t, "Trip not found: TRIP_404", err.Error())
}

func TestStopQuery(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)

	stop, err := StopQuery(snapshot, query.Stop{PrimaryIdentifier: "STOP_C"})
	require.NoError(t, err)
	assert.Equal(t, "Stop C", stop.PrimaryName)
	assert.True(t, stop.Location.Equal(timetabletest.StopC))

	_, err = StopQuery(snapshot, query.Stop{PrimaryIdentifier: "STOP_404"})
	assert.ErrorIs(t, err, ctdf.ErrNotFound)
}

func TestLookup(t *testing.T) {
	s := Source{Timetable: timetabletest.Holder(t)}

	result, err := s.Lookup(context.Background(), query.Trip{PrimaryIdentifier: "TRIP_1"})
	require.NoError(t, err)
	assert.Equal(t, "To Stop C", result.(*ctdf.Trip).Headsign)

	_, err = s.Lookup(context.Background(), query.NearbyStops{})
	assert.ErrorIs(t, err, source.UnsupportedSourceError)

	// Nothing loaded yet
	s = Source{Timetable: timetable.NewHolder(nil)}
	_, err = s.Lookup(context.Background(), query.Trip{PrimaryIdentifier: "TRIP_1"})

	var collaboratorError *ctdf.CollaboratorError
	assert.True(t, errors.As(err, &collaboratorError))
}
