package nearbystops

import (
	"strings"

	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/timetable"
	"golang.org/x/exp/slices"
)

// NearestStops returns the stops within radiusMeters of point, nearest first with ties broken
// by stop identifier. A maxResults of zero or less returns every stop in range.
func NearestStops(snapshot *timetable.Snapshot, point ctdf.Location, radiusMeters float64, maxResults int) []ctdf.NearbyStop {
	nearbyStops := []ctdf.NearbyStop{}

	if radiusMeters <= 0 || !point.Valid() {
		return nearbyStops
	}

	snapshot.StopsWithin(point, radiusMeters, func(stop *ctdf.Stop) bool {
		distance := point.Distance(stop.Location)
		if distance <= radiusMeters {
			nearbyStops = append(nearbyStops, ctdf.NearbyStop{Stop: stop, Distance: distance})
		}
		return true
	})

	sortNearbyStops(nearbyStops)

	if maxResults > 0 && len(nearbyStops) > maxResults {
		nearbyStops = nearbyStops[:maxResults]
	}

	return nearbyStops
}

func sortNearbyStops(nearbyStops []ctdf.NearbyStop) {
	slices.SortFunc(nearbyStops, func(a, b ctdf.NearbyStop) int {
		if a.Distance < b.Distance {
			return -1
		} else if a.Distance > b.Distance {
			return 1
		}
		return strings.Compare(a.Stop.PrimaryIdentifier, b.Stop.PrimaryIdentifier)
	})
}
