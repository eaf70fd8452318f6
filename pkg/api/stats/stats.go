package stats

import (
	"time"

	"github.com/travigo/journeyplanner/pkg/timetable"
)

type RecordsStats struct {
	TimetableVersion string    `json:"timetable_version"`
	LoadedAt         time.Time `json:"loaded_at"`

	Stops     int `json:"stops"`
	Trips     int `json:"trips"`
	StopTimes int `json:"stop_times"`
}

// CurrentRecordsStats describes the snapshot currently published in holder
func CurrentRecordsStats(holder *timetable.Holder) (*RecordsStats, error) {
	snapshot, err := holder.Load()
	if err != nil {
		return nil, err
	}

	return &RecordsStats{
		TimetableVersion: snapshot.Version,
		LoadedAt:         snapshot.LoadedAt,
		Stops:            snapshot.StopCount(),
		Trips:            snapshot.TripCount(),
		StopTimes:        snapshot.CallCount(),
	}, nil
}
