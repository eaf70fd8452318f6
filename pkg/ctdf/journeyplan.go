package ctdf

import (
	"math"
	"time"
)

type LegType string

const (
	LegTypeWalk LegType = "walk"
	LegTypeRide LegType = "ride"
)

// Leg is one segment of an Itinerary. The set of implementations is closed: *WalkLeg and *RideLeg.
type Leg interface {
	Type() LegType
	Origin() Location
	Destination() Location
	TravelTime() time.Duration

	isLeg()
}

type WalkLeg struct {
	From     Location
	To       Location
	Distance float64
	Duration time.Duration
}

func (w *WalkLeg) Type() LegType { return LegTypeWalk }
func (w *WalkLeg) Origin() Location { return w.From }
func (w *WalkLeg) Destination() Location { return w.To }
func (w *WalkLeg) TravelTime() time.Duration { return w.Duration }
func (w *WalkLeg) isLeg() {}

// RideLeg covers a Trip from the call at BoardingIndex to the call at AlightingIndex
type RideLeg struct {
	Trip           *Trip
	BoardingIndex  int
	AlightingIndex int

	DepartureTime time.Time
	ArrivalTime   time.Time
}

func NewRideLeg(trip *Trip, boardingIndex int, alightingIndex int, serviceDay time.Time) *RideLeg {
	return &RideLeg{
		Trip:           trip,
		BoardingIndex:  boardingIndex,
		AlightingIndex: alightingIndex,
		DepartureTime:  trip.Stops[boardingIndex].DepartureTime.On(serviceDay),
		ArrivalTime:    trip.Stops[alightingIndex].ArrivalTime.On(serviceDay),
	}
}

func (r *RideLeg) Type() LegType { return LegTypeRide }
func (r *RideLeg) Origin() Location { return r.From().Location }
func (r *RideLeg) Destination() Location { return r.To().Location }
func (r *RideLeg) TravelTime() time.Duration { return r.ArrivalTime.Sub(r.DepartureTime) }
func (r *RideLeg) isLeg() {}

func (r *RideLeg) From() *Stop {
	return r.Trip.Stops[r.BoardingIndex].Stop
}

func (r *RideLeg) To() *Stop {
	return r.Trip.Stops[r.AlightingIndex].Stop
}

// IntermediateStops is the number of calls passed between boarding and alighting
func (r *RideLeg) IntermediateStops() int {
	return r.AlightingIndex - r.BoardingIndex - 1
}

// Calls returns the trip calls from boarding to alighting inclusive
func (r *RideLeg) Calls() []*TripStop {
	return r.Trip.Stops[r.BoardingIndex : r.AlightingIndex+1]
}

type Itinerary struct {
	Legs []Leg

	StartTime     time.Time
	DepartureTime time.Time
	ArrivalTime   time.Time

	WaitTime        time.Duration
	TotalTravelTime time.Duration
}

// Ride returns the single ride leg of a direct itinerary
func (i *Itinerary) Ride() *RideLeg {
	for _, leg := range i.Legs {
		if ride, ok := leg.(*RideLeg); ok {
			return ride
		}
	}

	return nil
}

// WalkDuration converts a walking distance to a duration rounded to whole seconds
func WalkDuration(distance float64, speed float64) time.Duration {
	if distance <= 0 || speed <= 0 {
		return 0
	}

	return time.Duration(math.Round(distance/speed)) * time.Second
}

// NewDirectItinerary builds walk, ride, walk legs around ride. Zero length walks are omitted.
func NewDirectItinerary(origin Location, destination Location, startTime time.Time, ride *RideLeg, walkingSpeed float64) *Itinerary {
	itinerary := &Itinerary{
		StartTime:     startTime,
		DepartureTime: ride.DepartureTime,
		WaitTime:      ride.DepartureTime.Sub(startTime),
	}

	if itinerary.WaitTime < 0 {
		itinerary.WaitTime = 0
	}

	boardingLocation := ride.From().Location
	if distance := origin.Distance(boardingLocation); distance > 0 {
		itinerary.Legs = append(itinerary.Legs, &WalkLeg{
			From:     origin,
			To:       boardingLocation,
			Distance: distance,
			Duration: WalkDuration(distance, walkingSpeed),
		})
	}

	itinerary.Legs = append(itinerary.Legs, ride)

	alightingLocation := ride.To().Location
	finalWalk := time.Duration(0)
	if distance := alightingLocation.Distance(destination); distance > 0 {
		finalWalk = WalkDuration(distance, walkingSpeed)
		itinerary.Legs = append(itinerary.Legs, &WalkLeg{
			From:     alightingLocation,
			To:       destination,
			Distance: distance,
			Duration: finalWalk,
		})
	}

	itinerary.ArrivalTime = ride.ArrivalTime.Add(finalWalk)

	itinerary.TotalTravelTime = itinerary.WaitTime
	for _, leg := range itinerary.Legs {
		itinerary.TotalTravelTime += leg.TravelTime()
	}

	return itinerary
}
