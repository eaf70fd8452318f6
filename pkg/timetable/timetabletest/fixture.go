// Package timetabletest provides a small timetable for tests.
//
// Stops run roughly south west to north east: STOP_W, STOP_A, STOP_B, STOP_C.
// TRIP_1 runs A 08:00, B 08:10, C 08:20. TRIP_2 runs B 08:05, A 08:15, W 08:25.
// TRIP_3 runs A 08:30, B 08:45.
package timetabletest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataimporter/formats/gtfs"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

var (
	StopW = ctdf.NewLocation(51.09, 16.98)
	StopA = ctdf.NewLocation(51.10, 17.00)
	StopB = ctdf.NewLocation(51.11, 17.02)
	StopC = ctdf.NewLocation(51.12, 17.04)
)

// ServiceDay is the date the fixture is queried on
var ServiceDay = time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)

func At(hour int, minute int) time.Time {
	return ServiceDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func Schedule() *gtfs.Schedule {
	return &gtfs.Schedule{
		Stops: []gtfs.Stop{
			{ID: "STOP_A", Name: "Stop A", Latitude: StopA.Latitude(), Longitude: StopA.Longitude()},
			{ID: "STOP_B", Name: "Stop B", Latitude: StopB.Latitude(), Longitude: StopB.Longitude()},
			{ID: "STOP_C", Name: "Stop C", Latitude: StopC.Latitude(), Longitude: StopC.Longitude()},
			{ID: "STOP_W", Name: "Stop W", Latitude: StopW.Latitude(), Longitude: StopW.Longitude()},
		},
		Trips: []gtfs.Trip{
			{ID: "TRIP_1", RouteID: "A", Headsign: "To Stop C"},
			{ID: "TRIP_2", RouteID: "A", Headsign: "To Stop W"},
			{ID: "TRIP_3", RouteID: "B", Headsign: "To Stop B"},
		},
		StopTimes: []gtfs.StopTime{
			{TripID: "TRIP_1", StopID: "STOP_A", StopSequence: 1, ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "TRIP_1", StopID: "STOP_B", StopSequence: 2, ArrivalTime: "08:10:00", DepartureTime: "08:10:00"},
			{TripID: "TRIP_1", StopID: "STOP_C", StopSequence: 3, ArrivalTime: "08:20:00", DepartureTime: "08:20:00"},

			{TripID: "TRIP_2", StopID: "STOP_B", StopSequence: 1, ArrivalTime: "08:05:00", DepartureTime: "08:05:00"},
			{TripID: "TRIP_2", StopID: "STOP_A", StopSequence: 2, ArrivalTime: "08:15:00", DepartureTime: "08:15:00"},
			{TripID: "TRIP_2", StopID: "STOP_W", StopSequence: 3, ArrivalTime: "08:25:00", DepartureTime: "08:25:00"},

			// Listed out of order on purpose
			{TripID: "TRIP_3", StopID: "STOP_B", StopSequence: 2, ArrivalTime: "08:45:00", DepartureTime: "08:45:00"},
			{TripID: "TRIP_3", StopID: "STOP_A", StopSequence: 1, ArrivalTime: "08:30:00", DepartureTime: "08:30:00"},
		},
	}
}

func Snapshot(t testing.TB) *timetable.Snapshot {
	t.Helper()

	snapshot, err := timetable.FromSchedule(Schedule())
	require.NoError(t, err)

	return snapshot
}

func Holder(t testing.TB) *timetable.Holder {
	t.Helper()

	return timetable.NewHolder(Snapshot(t))
}

// Near returns a point metres north of location
func Near(location ctdf.Location, metres float64) ctdf.Location {
	return ctdf.NewLocation(location.Latitude()+metres/111195, location.Longitude())
}
