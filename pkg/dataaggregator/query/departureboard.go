package query

import (
	"time"

	"github.com/travigo/journeyplanner/pkg/ctdf"
)

type DepartureBoard struct {
	Stops         []ctdf.NearbyStop
	Count         int
	StartDateTime time.Time

	// When set only departures heading towards Destination are returned
	Destination *ctdf.Location
}
