package databaselookup

import (
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

// TripQuery returns the trip with its calls ordered by stop sequence
func TripQuery(snapshot *timetable.Snapshot, tripQuery query.Trip) (*ctdf.Trip, error) {
	trip, exists := snapshot.Trip(tripQuery.PrimaryIdentifier)

	if !exists {
		return nil, &ctdf.NotFoundError{Resource: "Trip", Identifier: tripQuery.PrimaryIdentifier}
	}

	return trip, nil
}
