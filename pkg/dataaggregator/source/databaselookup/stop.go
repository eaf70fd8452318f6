package databaselookup

import (
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

func StopQuery(snapshot *timetable.Snapshot, stopQuery query.Stop) (*ctdf.Stop, error) {
	stop, exists := snapshot.Stop(stopQuery.PrimaryIdentifier)

	if !exists {
		return nil, &ctdf.NotFoundError{Resource: "Stop", Identifier: stopQuery.PrimaryIdentifier}
	}

	return stop, nil
}
