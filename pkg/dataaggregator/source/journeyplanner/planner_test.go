package journeyplanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/timetable/timetabletest"

	_ "time/tzdata"
)

func bestRoute(origin ctdf.Location, destination ctdf.Location, start time.Time, maxWalk float64) query.BestRoute {
	return query.BestRoute{
		Origin:        origin,
		Destination:   destination,
		StartDateTime: start,
		MaxWalkMeters: maxWalk,
	}
}

func assertContiguous(t *testing.T, itinerary *ctdf.Itinerary, q query.BestRoute) {
	t.Helper()

	require.NotEmpty(t, itinerary.Legs)
	assert.True(t, itinerary.Legs[0].Origin().Equal(q.Origin))
	assert.True(t, itinerary.Legs[len(itinerary.Legs)-1].Destination().Equal(q.Destination))

	total := itinerary.WaitTime
	for i, leg := range itinerary.Legs {
		assert.GreaterOrEqual(t, leg.TravelTime(), time.Duration(0))
		total += leg.TravelTime()

		if i > 0 {
			assert.True(t, itinerary.Legs[i-1].Destination().Equal(leg.Origin()), "leg %d does not start where leg %d ends", i, i-1)
		}
	}
	assert.Equal(t, total, itinerary.TotalTravelTime)
}

func TestPlan(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	q := bestRoute(timetabletest.Near(timetabletest.StopA, 50), timetabletest.Near(timetabletest.StopB, 50), timetabletest.At(8, 0), 1000)

	itinerary, err := Plan(context.Background(), snapshot, q, config.DefaultPlanner())
	require.NoError(t, err)

	require.Len(t, itinerary.Legs, 3)
	assert.Equal(t, ctdf.LegTypeWalk, itinerary.Legs[0].Type())
	assert.Equal(t, ctdf.LegTypeRide, itinerary.Legs[1].Type())
	assert.Equal(t, ctdf.LegTypeWalk, itinerary.Legs[2].Type())

	ride := itinerary.Ride()
	assert.Equal(t, "TRIP_1", ride.Trip.PrimaryIdentifier)
	assert.Equal(t, "STOP_A", ride.From().PrimaryIdentifier)
	assert.Equal(t, "STOP_B", ride.To().PrimaryIdentifier)
	assert.Equal(t, 600*time.Second, ride.TravelTime())
	assert.Equal(t, 0, ride.IntermediateStops())

	walk := itinerary.Legs[0].(*ctdf.WalkLeg)
	assert.InDelta(t, 50, walk.Distance, 0.5)
	assert.Equal(t, 36*time.Second, walk.Duration)

	assert.Equal(t, time.Duration(0), itinerary.WaitTime)
	assert.Equal(t, 672*time.Second, itinerary.TotalTravelTime)
	assert.Equal(t, timetabletest.At(8, 10).Add(36*time.Second), itinerary.ArrivalTime)

	assertContiguous(t, itinerary, q)
}

func TestPlanLaterDeparture(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)

	// TRIP_1 has left, TRIP_2 heads the wrong way so TRIP_3 is the only option
	q := bestRoute(timetabletest.StopA, timetabletest.Near(timetabletest.StopB, 50), timetabletest.At(8, 1), 1000)

	itinerary, err := Plan(context.Background(), snapshot, q, config.DefaultPlanner())
	require.NoError(t, err)

	require.Len(t, itinerary.Legs, 2)
	assert.Equal(t, ctdf.LegTypeRide, itinerary.Legs[0].Type())
	assert.Equal(t, "TRIP_3", itinerary.Ride().Trip.PrimaryIdentifier)
	assert.Equal(t, 29*time.Minute, itinerary.WaitTime)
	assert.Equal(t, 29*time.Minute+15*time.Minute+36*time.Second, itinerary.TotalTravelTime)

	assertContiguous(t, itinerary, q)
}

func TestPlanDaylightSaving(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)

	settings := config.DefaultPlanner()
	settings.Timezone = "Europe/Warsaw"
	warsaw := settings.Location()

	// Clocks go forward at 02:00 on 2025-03-30
	q := bestRoute(timetabletest.StopA, timetabletest.Near(timetabletest.StopB, 50), time.Date(2025, 3, 30, 7, 55, 0, 0, warsaw), 1000)

	itinerary, err := Plan(context.Background(), snapshot, q, settings)
	require.NoError(t, err)

	ride := itinerary.Ride()
	require.NotNil(t, ride)
	assert.Equal(t, "TRIP_1", ride.Trip.PrimaryIdentifier)
	assert.True(t, time.Date(2025, 3, 30, 8, 0, 0, 0, warsaw).Equal(ride.DepartureTime), ride.DepartureTime.In(warsaw).String())
	assert.True(t, time.Date(2025, 3, 30, 8, 10, 0, 0, warsaw).Equal(ride.ArrivalTime))

	assert.Equal(t, 5*time.Minute, itinerary.WaitTime)
	assert.Equal(t, 5*time.Minute+600*time.Second+36*time.Second, itinerary.TotalTravelTime)
	assertContiguous(t, itinerary, q)
}

func TestPlanPassesThroughStops(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	q := bestRoute(timetabletest.StopA, timetabletest.StopC, timetabletest.At(7, 30), 100)

	itinerary, err := Plan(context.Background(), snapshot, q, config.DefaultPlanner())
	require.NoError(t, err)

	require.Len(t, itinerary.Legs, 1)
	ride := itinerary.Ride()
	assert.Equal(t, "TRIP_1", ride.Trip.PrimaryIdentifier)
	assert.Equal(t, 1, ride.IntermediateStops())
	assert.Len(t, ride.Calls(), 3)
	assert.Equal(t, 30*time.Minute+20*time.Minute, itinerary.TotalTravelTime)
}

func TestPlanNotFound(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	settings := config.DefaultPlanner()

	tests := []struct {
		name string
		q    query.BestRoute
	}{
		{"walk too short", bestRoute(timetabletest.Near(timetabletest.StopA, 50), timetabletest.Near(timetabletest.StopB, 50), timetabletest.At(8, 0), 10)},
		{"zero walk", bestRoute(timetabletest.Near(timetabletest.StopA, 50), timetabletest.Near(timetabletest.StopB, 50), timetabletest.At(8, 0), 0)},
		{"no departures left", bestRoute(timetabletest.StopA, timetabletest.StopB, timetabletest.At(9, 0), 100)},
		{"needs a transfer", bestRoute(timetabletest.StopW, timetabletest.StopC, timetabletest.At(7, 0), 100)},
		{"nowhere near", bestRoute(ctdf.NewLocation(0, 0), timetabletest.StopB, timetabletest.At(7, 0), 1000)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			itinerary, err := Plan(context.Background(), snapshot, test.q, settings)
			assert.Nil(t, itinerary)
			assert.ErrorIs(t, err, ctdf.ErrNotFound)
		})
	}
}

func TestPlanInvalidCoordinates(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)

	_, err := Plan(context.Background(), snapshot, bestRoute(ctdf.NewLocation(91, 0), timetabletest.StopB, timetabletest.At(7, 0), 1000), config.DefaultPlanner())

	var inputError *ctdf.InputError
	require.True(t, errors.As(err, &inputError))
	assert.Equal(t, "start_coordinates", inputError.Parameter)

	_, err = Plan(context.Background(), snapshot, bestRoute(timetabletest.StopA, ctdf.NewLocation(0, 181), timetabletest.At(7, 0), 1000), config.DefaultPlanner())
	require.True(t, errors.As(err, &inputError))
	assert.Equal(t, "end_coordinates", inputError.Parameter)
}

func TestPlanCancelled(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := bestRoute(timetabletest.StopA, timetabletest.StopB, timetabletest.At(7, 0), 100)
	_, err := Plan(ctx, snapshot, q, config.DefaultPlanner())
	assert.ErrorIs(t, err, ctdf.ErrNotFound)
}

func TestBestRouteQueryIdempotent(t *testing.T) {
	s := Source{Timetable: timetabletest.Holder(t), Settings: config.DefaultPlanner()}
	q := bestRoute(timetabletest.Near(timetabletest.StopA, 50), timetabletest.Near(timetabletest.StopB, 50), timetabletest.At(8, 0), 1000)

	first, err := s.BestRouteQuery(context.Background(), q)
	require.NoError(t, err)
	second, err := s.BestRouteQuery(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBetter(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	trip1, _ := snapshot.Trip("TRIP_1")
	trip3, _ := snapshot.Trip("TRIP_3")

	itinerary := func(trip *ctdf.Trip, total time.Duration, arrival time.Time) *ctdf.Itinerary {
		return &ctdf.Itinerary{
			Legs:            []ctdf.Leg{ctdf.NewRideLeg(trip, 0, 1, timetabletest.ServiceDay)},
			ArrivalTime:     arrival,
			TotalTravelTime: total,
		}
	}

	assert.True(t, better(itinerary(trip3, time.Minute, timetabletest.At(9, 0)), itinerary(trip1, 2*time.Minute, timetabletest.At(8, 0))))
	assert.True(t, better(itinerary(trip3, time.Minute, timetabletest.At(8, 0)), itinerary(trip1, time.Minute, timetabletest.At(8, 1))))
	assert.True(t, better(itinerary(trip1, time.Minute, timetabletest.At(8, 0)), itinerary(trip3, time.Minute, timetabletest.At(8, 0))))
	assert.False(t, better(itinerary(trip3, time.Minute, timetabletest.At(8, 0)), itinerary(trip1, time.Minute, timetabletest.At(8, 0))))

	// Fewer intermediate stops wins when total and arrival match
	longer := &ctdf.Itinerary{
		Legs:            []ctdf.Leg{ctdf.NewRideLeg(trip1, 0, 2, timetabletest.ServiceDay)},
		ArrivalTime:     timetabletest.At(8, 0),
		TotalTravelTime: time.Minute,
	}
	assert.True(t, better(itinerary(trip3, time.Minute, timetabletest.At(8, 0)), longer))
}
