package journeyplanner

import (
	"context"
	"reflect"

	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

type Source struct {
	Timetable *timetable.Holder
	Settings  config.Planner

	// Optional, nil disables result caching
	Cache *cachedresults.Cache
}

func (s Source) GetName() string {
	return "Journey Planner"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.Itinerary{}),
	}
}

func (s Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case query.BestRoute:
		return s.BestRouteQuery(ctx, q)
	default:
		return nil, source.UnsupportedSourceError
	}
}
