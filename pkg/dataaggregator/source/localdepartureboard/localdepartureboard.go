package localdepartureboard

import (
	"context"
	"reflect"

	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

type Source struct {
	Timetable *timetable.Holder
	Settings  config.Planner
}

func (s Source) GetName() string {
	return "Local Departure Board Generator"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]*ctdf.Departure{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.DepartureBoard:
		return s.DepartureBoardQuery(ctx, q)
	default:
		return nil, source.UnsupportedSourceError
	}
}
