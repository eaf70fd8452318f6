package query

import (
	"fmt"
	"time"

	"github.com/travigo/journeyplanner/pkg/ctdf"
)

type BestRoute struct {
	Origin        ctdf.Location
	Destination   ctdf.Location
	StartDateTime time.Time
	MaxWalkMeters float64
}

// CacheKey identifies the query independently of the timetable version
func (b BestRoute) CacheKey() string {
	return fmt.Sprintf(
		"bestroute/%v,%v/%v,%v/%d/%v",
		b.Origin.Latitude(), b.Origin.Longitude(),
		b.Destination.Latitude(), b.Destination.Longitude(),
		b.StartDateTime.UnixNano(),
		b.MaxWalkMeters,
	)
}
