package routes

import (
	"math"
	"time"

	"github.com/travigo/journeyplanner/pkg/ctdf"
)

type coordinatesView struct {
	Latitude  float64 `json:"latitude" groups:"basic"`
	Longitude float64 `json:"longitude" groups:"basic"`
}

func newCoordinatesView(location ctdf.Location) coordinatesView {
	return coordinatesView{
		Latitude:  location.Latitude(),
		Longitude: location.Longitude(),
	}
}

type stopCallView struct {
	Name          string          `json:"name" groups:"basic"`
	Coordinates   coordinatesView `json:"coordinates" groups:"basic"`
	ArrivalTime   string          `json:"arrival_time" groups:"basic"`
	DepartureTime string          `json:"departure_time" groups:"basic"`

	WalkingDistance float64 `json:"walking_distance_m" groups:"departures"`
}

type departureView struct {
	TripID   string       `json:"trip_id" groups:"basic"`
	RouteID  string       `json:"route_id" groups:"basic"`
	Headsign string       `json:"trip_headsign" groups:"basic"`
	Stop     stopCallView `json:"stop" groups:"basic"`
}

func newDepartureView(departure *ctdf.Departure) departureView {
	return departureView{
		TripID:   departure.Trip.PrimaryIdentifier,
		RouteID:  departure.RouteRef(),
		Headsign: departure.Headsign(),
		Stop: stopCallView{
			Name:            departure.Stop.PrimaryName,
			Coordinates:     newCoordinatesView(departure.Stop.Location),
			ArrivalTime:     departure.ArrivalTime.Format(time.RFC3339),
			DepartureTime:   departure.Time.Format(time.RFC3339),
			WalkingDistance: math.Round(departure.WalkingDistance*10) / 10,
		},
	}
}

type tripView struct {
	TripID   string         `json:"trip_id" groups:"basic"`
	RouteID  string         `json:"route_id" groups:"basic"`
	Headsign string         `json:"trip_headsign" groups:"basic"`
	Stops    []stopCallView `json:"stops" groups:"basic"`
}

func newTripView(trip *ctdf.Trip) tripView {
	view := tripView{
		TripID:   trip.PrimaryIdentifier,
		RouteID:  trip.RouteRef,
		Headsign: trip.Headsign,
		Stops:    []stopCallView{},
	}

	for _, tripStop := range trip.Stops {
		view.Stops = append(view.Stops, stopCallView{
			Name:          tripStop.Stop.PrimaryName,
			Coordinates:   newCoordinatesView(tripStop.Stop.Location),
			ArrivalTime:   tripStop.ArrivalTime.String(),
			DepartureTime: tripStop.DepartureTime.String(),
		})
	}

	return view
}

type placeView struct {
	Name        string          `json:"name,omitempty"`
	StopID      string          `json:"stop_id,omitempty"`
	Coordinates coordinatesView `json:"coordinates"`
}

func stopPlace(stop *ctdf.Stop) placeView {
	return placeView{
		Name:        stop.PrimaryName,
		StopID:      stop.PrimaryIdentifier,
		Coordinates: newCoordinatesView(stop.Location),
	}
}

type rideCallView struct {
	Name          string          `json:"name"`
	Coordinates   coordinatesView `json:"coordinates"`
	ArrivalTime   string          `json:"arrival_time"`
	DepartureTime string          `json:"departure_time"`
}

type legView struct {
	Type        ctdf.LegType `json:"type"`
	From        placeView    `json:"from"`
	To          placeView    `json:"to"`
	DurationSec int64        `json:"duration_sec"`

	DistanceMeters *float64 `json:"distance_m,omitempty"`

	TripID        string `json:"trip_id,omitempty"`
	RouteID       string `json:"route_id,omitempty"`
	Headsign      string `json:"trip_headsign,omitempty"`
	NumStops      *int   `json:"num_stops,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`

	Stops []rideCallView `json:"stops,omitempty"`
}

type routeView struct {
	TotalTravelTimeSec int64     `json:"total_travel_time_sec"`
	WaitTimeSec        int64     `json:"wait_time_sec"`
	StartTime          string    `json:"start_time"`
	DepartureTime      string    `json:"departure_time"`
	ArrivalTime        string    `json:"arrival_time"`
	Legs               []legView `json:"legs"`
}

func newRouteView(itinerary *ctdf.Itinerary) routeView {
	view := routeView{
		TotalTravelTimeSec: int64(itinerary.TotalTravelTime.Seconds()),
		WaitTimeSec:        int64(itinerary.WaitTime.Seconds()),
		StartTime:          itinerary.StartTime.Format(time.RFC3339),
		DepartureTime:      itinerary.DepartureTime.Format(time.RFC3339),
		ArrivalTime:        itinerary.ArrivalTime.Format(time.RFC3339),
		Legs:               []legView{},
	}

	ride := itinerary.Ride()

	for _, leg := range itinerary.Legs {
		switch leg := leg.(type) {
		case *ctdf.WalkLeg:
			distance := math.Round(leg.Distance*10) / 10
			walk := legView{
				Type:           leg.Type(),
				From:           placeView{Coordinates: newCoordinatesView(leg.From)},
				To:             placeView{Coordinates: newCoordinatesView(leg.To)},
				DurationSec:    int64(leg.Duration.Seconds()),
				DistanceMeters: &distance,
			}

			// Walks start or end at the ride's stops
			if ride != nil && leg.To.Equal(ride.From().Location) {
				walk.To = stopPlace(ride.From())
			}
			if ride != nil && leg.From.Equal(ride.To().Location) {
				walk.From = stopPlace(ride.To())
			}

			view.Legs = append(view.Legs, walk)
		case *ctdf.RideLeg:
			intermediateStops := leg.IntermediateStops()

			calls := []rideCallView{}
			for _, tripStop := range leg.Calls() {
				calls = append(calls, rideCallView{
					Name:          tripStop.Stop.PrimaryName,
					Coordinates:   newCoordinatesView(tripStop.Stop.Location),
					ArrivalTime:   tripStop.ArrivalTime.String(),
					DepartureTime: tripStop.DepartureTime.String(),
				})
			}

			view.Legs = append(view.Legs, legView{
				Type:          leg.Type(),
				From:          stopPlace(leg.From()),
				To:            stopPlace(leg.To()),
				DurationSec:   int64(leg.TravelTime().Seconds()),
				TripID:        leg.Trip.PrimaryIdentifier,
				RouteID:       leg.Trip.RouteRef,
				Headsign:      leg.Trip.Headsign,
				NumStops:      &intermediateStops,
				DepartureTime: leg.DepartureTime.Format(time.RFC3339),
				ArrivalTime:   leg.ArrivalTime.Format(time.RFC3339),
				Stops:         calls,
			})
		}
	}

	return view
}
