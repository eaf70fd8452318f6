package timetable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataimporter/formats/gtfs"
	"github.com/travigo/journeyplanner/pkg/timetable"
	"github.com/travigo/journeyplanner/pkg/timetable/timetabletest"
	"golang.org/x/exp/slices"
)

func stopsWithin(snapshot *timetable.Snapshot, center ctdf.Location, radius float64) []string {
	identifiers := []string{}
	snapshot.StopsWithin(center, radius, func(stop *ctdf.Stop) bool {
		identifiers = append(identifiers, stop.PrimaryIdentifier)
		return true
	})
	slices.Sort(identifiers)

	return identifiers
}

func TestStopsWithin(t *testing.T) {
	snapshot := timetabletest.Snapshot(t)

	assert.Equal(t, []string{"STOP_A"}, stopsWithin(snapshot, timetabletest.StopA, 100))
	assert.Equal(t, []string{"STOP_A", "STOP_B", "STOP_W"}, stopsWithin(snapshot, timetabletest.StopA, 2000))
	assert.Equal(t, []string{"STOP_A", "STOP_B", "STOP_C", "STOP_W"}, stopsWithin(snapshot, timetabletest.StopA, 10000))
	assert.Empty(t, stopsWithin(snapshot, timetabletest.StopA, 0))
	assert.Empty(t, stopsWithin(snapshot, ctdf.NewLocation(0, 0), 10000))

	// Stopping early
	visited := 0
	snapshot.StopsWithin(timetabletest.StopA, 10000, func(stop *ctdf.Stop) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestStopsWithinEdges(t *testing.T) {
	snapshot, err := timetable.FromSchedule(&gtfs.Schedule{
		Stops: []gtfs.Stop{
			{ID: "EAST", Latitude: -17.7, Longitude: 179.99},
			{ID: "WEST", Latitude: -17.7, Longitude: -179.99},
			{ID: "POLE", Latitude: 89.999, Longitude: 10},
			{ID: "POLE_OPPOSITE", Latitude: 89.999, Longitude: -170},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"EAST", "WEST"}, stopsWithin(snapshot, ctdf.NewLocation(-17.7, 179.999), 5000))
	assert.Equal(t, []string{"EAST", "WEST"}, stopsWithin(snapshot, ctdf.NewLocation(-17.7, -179.999), 5000))
	assert.Equal(t, []string{"POLE", "POLE_OPPOSITE"}, stopsWithin(snapshot, ctdf.NewLocation(90, 0), 1000))
}
