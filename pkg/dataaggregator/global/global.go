package global

import (
	"github.com/travigo/journeyplanner/pkg/config"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/databaselookup"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/journeyplanner"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/localdepartureboard"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source/nearbystops"
	"github.com/travigo/journeyplanner/pkg/redis_client"
	"github.com/travigo/journeyplanner/pkg/timetable"
)

// Setup registers every query source against holder. Routes are cached in redis when a client is connected.
func Setup(holder *timetable.Holder, settings config.Planner) *dataaggregator.Aggregator {
	aggregator := &dataaggregator.Aggregator{}

	var routeCache *cachedresults.Cache
	if redis_client.Client != nil {
		routeCache = cachedresults.New(redis_client.Client, settings.CacheExpiration)
	}

	aggregator.RegisterSource(databaselookup.Source{
		Timetable: holder,
	})
	aggregator.RegisterSource(nearbystops.Source{
		Timetable: holder,
	})
	aggregator.RegisterSource(localdepartureboard.Source{
		Timetable: holder,
		Settings:  settings,
	})
	aggregator.RegisterSource(journeyplanner.Source{
		Timetable: holder,
		Settings:  settings,
		Cache:     routeCache,
	})

	return aggregator
}
