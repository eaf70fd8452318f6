package gtfs

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedFiles = map[string][]string{
	"stops.txt": {
		"\xef\xbb\xbfstop_id,stop_name,stop_lat,stop_lon,stop_code",
		"STOP_A,Stop A,51.1079,17.0385,1",
		"STOP_B,Stop B,51.1100,17.0500,2",
	},
	"trips.txt": {
		"route_id,service_id,trip_id,trip_headsign",
		"A,WEEKDAY,TRIP_1,To Stop B",
	},
	"stop_times.txt": {
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence,pickup_type,drop_off_type",
		"TRIP_1,08:00:00,08:00:00,STOP_A,1,0,1",
		"TRIP_1,08:10:00,08:10:00,STOP_B,2,1,0",
	},
	"routes.txt": {
		"route_id,route_short_name",
		"A,A",
	},
}

func zipFeed(t *testing.T, files map[string][]string, prefix string) []byte {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for filename, content := range files {
		f, err := w.Create(prefix + filename)
		require.NoError(t, err)
		_, err = f.Write([]byte(strings.Join(content, "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func assertFeed(t *testing.T, schedule *Schedule) {
	require.Len(t, schedule.Stops, 2)
	assert.Equal(t, Stop{ID: "STOP_A", Name: "Stop A", Latitude: 51.1079, Longitude: 17.0385}, schedule.Stops[0])

	require.Len(t, schedule.Trips, 1)
	assert.Equal(t, Trip{ID: "TRIP_1", RouteID: "A", Headsign: "To Stop B"}, schedule.Trips[0])

	require.Len(t, schedule.StopTimes, 2)
	assert.Equal(t, StopTime{
		TripID:        "TRIP_1",
		ArrivalTime:   "08:00:00",
		DepartureTime: "08:00:00",
		StopID:        "STOP_A",
		StopSequence:  1,
		DropOffType:   StopTimeServiceNotAvailable,
	}, schedule.StopTimes[0])
	assert.Equal(t, int8(StopTimeServiceNotAvailable), schedule.StopTimes[1].PickupType)
}

func TestParseFile(t *testing.T) {
	schedule := &Schedule{}
	require.NoError(t, schedule.ParseFile(bytes.NewReader(zipFeed(t, feedFiles, ""))))
	assertFeed(t, schedule)

	// Feeds zipped with their containing folder
	schedule = &Schedule{}
	require.NoError(t, schedule.ParseFile(bytes.NewReader(zipFeed(t, feedFiles, "feed/"))))
	assertFeed(t, schedule)
}

func TestParseFileMissing(t *testing.T) {
	files := map[string][]string{
		"stops.txt": feedFiles["stops.txt"],
	}

	schedule := &Schedule{}
	err := schedule.ParseFile(bytes.NewReader(zipFeed(t, files, "")))
	require.Error(t, err)
	assert.Equal(t, "gtfs feed is missing stop_times.txt, trips.txt", err.Error())
}

func TestParsePath(t *testing.T) {
	directory := t.TempDir()
	for filename, content := range feedFiles {
		require.NoError(t, os.WriteFile(filepath.Join(directory, filename), []byte(strings.Join(content, "\n")), 0o644))
	}

	schedule, err := ParsePath(directory)
	require.NoError(t, err)
	assertFeed(t, schedule)

	zipPath := filepath.Join(t.TempDir(), "feed.zip")
	require.NoError(t, os.WriteFile(zipPath, zipFeed(t, feedFiles, ""), 0o644))

	schedule, err = ParsePath(zipPath)
	require.NoError(t, err)
	assertFeed(t, schedule)

	_, err = ParsePath(filepath.Join(directory, "missing.zip"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
