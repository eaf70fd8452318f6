package localdepartureboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/nearbystops"
	"github.com/travigo/journeyplanner/pkg/timetable/timetabletest"

	_ "time/tzdata"
)

func departureNames(departures []*ctdf.Departure) []string {
	names := []string{}
	for _, departure := range departures {
		names = append(names, departure.Trip.PrimaryIdentifier+"@"+departure.Stop.PrimaryIdentifier)
	}
	return names
}

func TestGenerate(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	settings := config.DefaultPlanner()

	stops := nearbystops.NearestStops(snapshot, timetabletest.StopA, 2500, 0)
	require.Len(t, stops, 3)

	departures, err := Generate(context.Background(), snapshot, query.DepartureBoard{
		Stops:         stops,
		Count:         10,
		StartDateTime: timetabletest.At(8, 0),
	}, settings)
	require.NoError(t, err)

	// Terminating calls at STOP_W and STOP_B are not departures
	assert.Equal(t, []string{"TRIP_1@STOP_A", "TRIP_2@STOP_B", "TRIP_1@STOP_B", "TRIP_2@STOP_A", "TRIP_3@STOP_A"}, departureNames(departures))

	for i, departure := range departures {
		assert.False(t, departure.Time.Before(timetabletest.At(8, 0)))
		assert.Equal(t, timetabletest.ServiceDay, departure.ServiceDay)
		if i > 0 {
			assert.False(t, departure.Time.Before(departures[i-1].Time))
		}
	}

	first := departures[0]
	assert.Equal(t, timetabletest.At(8, 0), first.Time)
	assert.Equal(t, 0, first.StopIndex)
	assert.Equal(t, 0.0, first.WalkingDistance)
	assert.Greater(t, departures[1].WalkingDistance, 0.0)
}

func TestGenerateStartTime(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	stops := nearbystops.NearestStops(snapshot, timetabletest.StopA, 100, 0)

	departures, err := Generate(context.Background(), snapshot, query.DepartureBoard{
		Stops:         stops,
		Count:         10,
		StartDateTime: timetabletest.At(8, 10),
	}, config.DefaultPlanner())
	require.NoError(t, err)
	assert.Equal(t, []string{"TRIP_2@STOP_A", "TRIP_3@STOP_A"}, departureNames(departures))

	departures, err = Generate(context.Background(), snapshot, query.DepartureBoard{
		Stops:         stops,
		Count:         10,
		StartDateTime: timetabletest.At(23, 0),
	}, config.DefaultPlanner())
	require.NoError(t, err)
	assert.Empty(t, departures)
}

func TestGenerateDirection(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	stops := nearbystops.NearestStops(snapshot, timetabletest.StopA, 100, 0)

	board := func(destination ctdf.Location) []string {
		departures, err := Generate(context.Background(), snapshot, query.DepartureBoard{
			Stops:         stops,
			Count:         10,
			StartDateTime: timetabletest.At(7, 0),
			Destination:   &destination,
		}, config.DefaultPlanner())
		require.NoError(t, err)

		return departureNames(departures)
	}

	assert.Equal(t, []string{"TRIP_2@STOP_A"}, board(timetabletest.StopW))
	assert.Equal(t, []string{"TRIP_1@STOP_A", "TRIP_3@STOP_A"}, board(timetabletest.StopC))
}

func TestGenerateDaylightSaving(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	stops := nearbystops.NearestStops(snapshot, timetabletest.StopA, 100, 0)

	settings := config.DefaultPlanner()
	settings.Timezone = "Europe/Warsaw"
	warsaw := settings.Location()
	require.Equal(t, "Europe/Warsaw", warsaw.String())

	for _, day := range []int{30, 31} {
		departures, err := Generate(context.Background(), snapshot, query.DepartureBoard{
			Stops:         stops,
			Count:         10,
			StartDateTime: time.Date(2025, 3, day, 7, 59, 0, 0, warsaw),
		}, settings)
		require.NoError(t, err)
		require.Equal(t, []string{"TRIP_1@STOP_A", "TRIP_2@STOP_A", "TRIP_3@STOP_A"}, departureNames(departures))

		// Clocks go forward at 02:00 on the 30th, scheduled times stay on the wall clock
		assert.True(t, time.Date(2025, 3, day, 8, 0, 0, 0, warsaw).Equal(departures[0].Time), departures[0].Time.In(warsaw).String())
		assert.True(t, time.Date(2025, 3, day, 8, 15, 0, 0, warsaw).Equal(departures[1].Time))
	}

	// 08:30 local is still ahead of a 08:20 start on the changeover day
	departures, err := Generate(context.Background(), snapshot, query.DepartureBoard{
		Stops:         stops,
		Count:         10,
		StartDateTime: time.Date(2025, 3, 30, 8, 20, 0, 0, warsaw),
	}, settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"TRIP_3@STOP_A"}, departureNames(departures))
}

func TestGenerateLimits(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	stops := nearbystops.NearestStops(snapshot, timetabletest.StopA, 2500, 0)
	settings := config.DefaultPlanner()

	departures, err := Generate(context.Background(), snapshot, query.DepartureBoard{
		Stops:         stops,
		Count:         0,
		StartDateTime: timetabletest.At(7, 0),
	}, settings)
	require.NoError(t, err)
	assert.Empty(t, departures)

	departures, err = Generate(context.Background(), snapshot, query.DepartureBoard{
		Stops:         []ctdf.NearbyStop{},
		Count:         10,
		StartDateTime: timetabletest.At(7, 0),
	}, settings)
	require.NoError(t, err)
	assert.NotNil(t, departures)
	assert.Empty(t, departures)

	departures, err = Generate(context.Background(), snapshot, query.DepartureBoard{
		Stops:         stops,
		Count:         2,
		StartDateTime: timetabletest.At(7, 0),
	}, settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"TRIP_1@STOP_A", "TRIP_2@STOP_B"}, departureNames(departures))

	// Only terminating calls at STOP_C
	departures, err = Generate(context.Background(), snapshot, query.DepartureBoard{
		Stops:         nearbystops.NearestStops(snapshot, timetabletest.StopC, 100, 0),
		Count:         10,
		StartDateTime: timetabletest.At(7, 0),
	}, settings)
	require.NoError(t, err)
	assert.Empty(t, departures)
}

func TestGenerateHorizon(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	stops := nearbystops.NearestStops(snapshot, timetabletest.StopA, 2500, 0)

	cfg := config.Default()
	cfg.Planner.SearchHorizon = "PT20M"
	require.NoError(t, cfg.Validate())

	departures, err := Generate(context.Background(), snapshot, query.DepartureBoard{
		Stops:         stops,
		Count:         10,
		StartDateTime: timetabletest.At(8, 0),
	}, cfg.Planner)
	require.NoError(t, err)
	assert.Equal(t, []string{"TRIP_1@STOP_A", "TRIP_2@STOP_B", "TRIP_1@STOP_B", "TRIP_2@STOP_A"}, departureNames(departures))

	for _, departure := range departures {
		assert.False(t, departure.Time.After(timetabletest.At(8, 0).Add(20*time.Minute)))
	}
}

func TestGenerateCancelled(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)
	stops := nearbystops.NearestStops(snapshot, timetabletest.StopA, 2500, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, snapshot, query.DepartureBoard{
		Stops:         stops,
		Count:         10,
		StartDateTime: timetabletest.At(8, 0),
	}, config.DefaultPlanner())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDepartureBoardQuery(t *testing.T) {
	holder := timetabletest.Holder(t)
	s := Source{Timetable: holder, Settings: config.DefaultPlanner()}

	snapshot, err := holder.Load()
	require.NoError(t, err)

	result, err := s.Lookup(context.Background(), query.DepartureBoard{
		Stops:         nearbystops.NearestStops(snapshot, timetabletest.StopA, 100, 0),
		Count:         1,
		StartDateTime: timetabletest.At(8, 0),
	})
	require.NoError(t, err)

	departures, ok := result.([]*ctdf.Departure)
	require.True(t, ok)
	assert.Equal(t, []string{"TRIP_1@STOP_A"}, departureNames(departures))

	_, err = s.Lookup(context.Background(), query.Trip{PrimaryIdentifier: "TRIP_1"})
	assert.Error(t, err)
}
