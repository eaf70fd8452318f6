package routes

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataaggregator"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/query"
)

func PublicTransportRouter(router fiber.Router, env *Environment) {
	router.Get("/:city/closest_departures", env.getClosestDepartures)
	router.Get("/:city/best_route", env.getBestRoute)
	router.Get("/:city/trip/:trip_id", env.getTrip)
}

func (e *Environment) checkCity(c *fiber.Ctx) bool {
	if e.Config.SupportsCity(c.Params("city")) {
		return true
	}

	c.SendStatus(fiber.StatusNotFound)
	c.JSON(fiber.Map{
		"error": "City not supported",
	})
	return false
}

func sendCoordinatesError(c *fiber.Ctx) error {
	c.SendStatus(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error":   coordinatesError,
		"example": coordinatesExample,
	})
}

func sendParameterError(c *fiber.Ctx, message string) error {
	c.SendStatus(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

// startTime returns the requested start instant, or now when start_time is absent
func (e *Environment) startTime(c *fiber.Ctx) (time.Time, string, error) {
	startTimeString := c.Query("start_time")
	if startTimeString == "" {
		now := time.Now().UTC().Truncate(time.Second)
		return now, now.Format(time.RFC3339), nil
	}

	startTime, err := parseStartTime(startTimeString, e.Config.Planner.Location())
	return startTime, startTimeString, err
}

func selfLink(c *fiber.Ctx) string {
	queryString := string(c.Request().URI().QueryString())
	if queryString == "" {
		return c.Path()
	}
	return c.Path() + "?" + queryString
}

func (e *Environment) getClosestDepartures(c *fiber.Ctx) error {
	currentTime := time.Now()

	if !e.checkCity(c) {
		return nil
	}
	city := c.Params("city")

	startCoordinates := c.Query("start_coordinates")
	endCoordinates := c.Query("end_coordinates")

	start, startOk := parseCoordinates(startCoordinates)
	end, endOk := parseCoordinates(endCoordinates)
	if !startOk || !endOk {
		return sendCoordinatesError(c)
	}

	var err error

	limit := e.Config.Planner.DefaultDepartureCount
	if limitString := c.Query("limit"); limitString != "" {
		limit, err = strconv.Atoi(limitString)
		if err != nil {
			return sendParameterError(c, "limit must be an integer")
		}
	}

	radius := e.Config.Planner.DefaultRadiusMeters
	if radiusString := c.Query("radius_m"); radiusString != "" {
		radius, err = strconv.ParseFloat(radiusString, 64)
		if err != nil {
			return sendParameterError(c, "radius_m must be a number (meters)")
		}
	}

	startTime, startTimeString, err := e.startTime(c)
	if err != nil {
		return sendError(c, err, "")
	}

	departures, err := e.closestDepartures(c.UserContext(), start, end, startTime, limit, radius)

	indexQueryEvent("closest_departures", city, currentTime, len(departures), err, map[string]string{
		"start_coordinates": startCoordinates,
		"end_coordinates":   endCoordinates,
		"start_time":        startTimeString,
	})

	if err != nil {
		return sendError(c, err, "No departures found")
	}

	departureViews := []departureView{}
	for _, departure := range departures {
		departureViews = append(departureViews, newDepartureView(departure))
	}

	departuresReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "departures"},
	}, departureViews)
	if err != nil {
		return sendError(c, err, "")
	}

	return c.JSON(fiber.Map{
		"metadata": fiber.Map{
			"self": selfLink(c),
			"city": city,
			"query_parameters": fiber.Map{
				"start_coordinates": startCoordinates,
				"end_coordinates":   endCoordinates,
				"start_time":        startTimeString,
				"limit":             limit,
				"radius_m":          radius,
			},
		},
		"departures": departuresReduced,
	})
}

func (e *Environment) closestDepartures(ctx context.Context, start ctdf.Location, end ctdf.Location, startTime time.Time, limit int, radius float64) ([]*ctdf.Departure, error) {
	nearbyStops, err := dataaggregator.Lookup[[]ctdf.NearbyStop](ctx, e.Aggregator, query.NearbyStops{
		Location:     start,
		RadiusMeters: radius,
	})
	if err != nil {
		return nil, err
	}

	return dataaggregator.Lookup[[]*ctdf.Departure](ctx, e.Aggregator, query.DepartureBoard{
		Stops:         nearbyStops,
		Count:         limit,
		StartDateTime: startTime,
		Destination:   &end,
	})
}

func (e *Environment) getTrip(c *fiber.Ctx) error {
	if !e.checkCity(c) {
		return nil
	}
	city := c.Params("city")
	tripID := c.Params("trip_id")

	trip, err := dataaggregator.Lookup[*ctdf.Trip](c.UserContext(), e.Aggregator, query.Trip{
		PrimaryIdentifier: tripID,
	})
	if err != nil {
		return sendError(c, err, "Trip not found")
	}

	tripReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, newTripView(trip))
	if err != nil {
		return sendError(c, err, "")
	}

	return c.JSON(fiber.Map{
		"metadata": fiber.Map{
			"self": c.Path(),
			"city": city,
			"query_parameters": fiber.Map{
				"trip_id": tripID,
			},
		},
		"trip_details": tripReduced,
	})
}

func (e *Environment) getBestRoute(c *fiber.Ctx) error {
	currentTime := time.Now()

	if !e.checkCity(c) {
		return nil
	}
	city := c.Params("city")

	startCoordinates := c.Query("start_coordinates")
	endCoordinates := c.Query("end_coordinates")

	start, startOk := parseCoordinates(startCoordinates)
	end, endOk := parseCoordinates(endCoordinates)
	if !startOk || !endOk {
		return sendCoordinatesError(c)
	}

	var err error

	maxWalk := e.Config.Planner.DefaultMaxWalkMeters
	if maxWalkString := c.Query("max_walk_m"); maxWalkString != "" {
		maxWalk, err = strconv.ParseFloat(maxWalkString, 64)
		if err != nil {
			return sendParameterError(c, "max_walk_m must be a number (meters)")
		}
	}

	startTime, startTimeString, err := e.startTime(c)
	if err != nil {
		return sendError(c, err, "")
	}

	itinerary, err := dataaggregator.Lookup[*ctdf.Itinerary](c.UserContext(), e.Aggregator, query.BestRoute{
		Origin:        start,
		Destination:   end,
		StartDateTime: startTime,
		MaxWalkMeters: maxWalk,
	})

	results := 0
	if err == nil {
		results = 1
	}
	indexQueryEvent("best_route", city, currentTime, results, err, map[string]string{
		"start_coordinates": startCoordinates,
		"end_coordinates":   endCoordinates,
		"start_time":        startTimeString,
	})

	if err != nil {
		return sendError(c, err, "No route found")
	}

	return c.JSON(fiber.Map{
		"metadata": fiber.Map{
			"self": selfLink(c),
			"city": city,
			"query_parameters": fiber.Map{
				"start_coordinates": startCoordinates,
				"end_coordinates":   endCoordinates,
				"start_time":        startTimeString,
				"max_walk_m":        maxWalk,
			},
		},
		"route": newRouteView(itinerary),
	})
}
