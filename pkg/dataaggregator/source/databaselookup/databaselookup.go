package databaselookup

import (
	"context"
	"reflect"

	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

type Source struct {
	Timetable *timetable.Holder
}

func (s Source) GetName() string {
	return "Database Lookup"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.Stop{}),
		reflect.TypeOf(ctdf.Trip{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q.(type) {
	case query.Stop, query.Trip:
	default:
		return nil, source.UnsupportedSourceError
	}

	snapshot, err := s.Timetable.Load()
	if err != nil {
		return nil, err
	}

	switch q := q.(type) {
	case query.Stop:
		return StopQuery(snapshot, q)
	case query.Trip:
		return TripQuery(snapshot, q)
	}

	return nil, source.UnsupportedSourceError
}
