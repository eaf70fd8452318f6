package nearbystops

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
	return "Nearby Stops"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]ctdf.NearbyStop{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.NearbyStops:
		snapshot, err := s.Timetable.Load()
		if err != nil {
			return nil, err
		}

		return NearestStops(snapshot, q.Location, q.RadiusMeters, q.MaxResults), nil
	default:
		return nil, source.UnsupportedSourceError
	}
}
