package query

import "github.com/travigo/journeyplanner/pkg/ctdf"

type Stop struct {
	PrimaryIdentifier string
}

type NearbyStops struct {
	Location     ctdf.Location
	RadiusMeters float64
	MaxResults   int
}
