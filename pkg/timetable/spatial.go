package timetable

import (
	"math"

	"github.com/travigo/journeyplanner/pkg/ctdf"
)

// Slack added to the bounding box so stops exactly on the radius survive the prefilter
const boundsMargin = 1.001

// StopsWithin calls fn for every stop whose coordinates fall inside a bounding box that
// contains the circle of radiusMeters around center. Callers apply the exact distance check.
func (s *Snapshot) StopsWithin(center ctdf.Location, radiusMeters float64, fn func(stop *ctdf.Stop) bool) {
	if radiusMeters <= 0 {
		return
	}

	latitude := center.Latitude()
	longitude := center.Longitude()

	latitudeDelta := radiansToDegrees(radiusMeters/ctdf.EarthRadiusMeters) * boundsMargin
	minLatitude := latitude - latitudeDelta
	maxLatitude := latitude + latitudeDelta

	// Near the poles a circle covers every longitude
	if minLatitude <= -90 || maxLatitude >= 90 {
		s.search(math.Max(minLatitude, -90), -180, math.Min(maxLatitude, 90), 180, fn)
		return
	}

	cosLatitude := math.Min(math.Cos(degreesToRadians(minLatitude)), math.Cos(degreesToRadians(maxLatitude)))
	longitudeDelta := latitudeDelta / cosLatitude

	if longitudeDelta >= 180 {
		s.search(minLatitude, -180, maxLatitude, 180, fn)
		return
	}

	minLongitude := longitude - longitudeDelta
	maxLongitude := longitude + longitudeDelta

	// Split boxes that cross the antimeridian
	switch {
	case minLongitude < -180:
		if !s.search(minLatitude, minLongitude+360, maxLatitude, 180, fn) {
			return
		}
		s.search(minLatitude, -180, maxLatitude, maxLongitude, fn)
	case maxLongitude > 180:
		if !s.search(minLatitude, minLongitude, maxLatitude, 180, fn) {
			return
		}
		s.search(minLatitude, -180, maxLatitude, maxLongitude-360, fn)
	default:
		s.search(minLatitude, minLongitude, maxLatitude, maxLongitude, fn)
	}
}

func (s *Snapshot) search(minLatitude, minLongitude, maxLatitude, maxLongitude float64, fn func(stop *ctdf.Stop) bool) bool {
	keepGoing := true

	s.tree.Search(
		[2]float64{minLatitude, minLongitude},
		[2]float64{maxLatitude, maxLongitude},
		func(min, max [2]float64, data interface{}) bool {
			if stop, ok := data.(*ctdf.Stop); ok {
				keepGoing = fn(stop)
			}
			return keepGoing
		},
	)

	return keepGoing
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func radiansToDegrees(radians float64) float64 {
	return radians * 180 / math.Pi
}
