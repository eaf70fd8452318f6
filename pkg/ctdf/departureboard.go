package ctdf

import (
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// Departure is a scheduled departure of a Trip from one of the queried stops
type Departure struct {
	Trip      *Trip `groups:"basic,detailed"`
	Stop      *Stop `groups:"basic,detailed"`
	StopIndex int   `groups:"detailed"`

	ServiceDay  time.Time `groups:"detailed"`
	Time        time.Time `groups:"basic,detailed"`
	ArrivalTime time.Time `groups:"basic,detailed"`

	WalkingDistance float64 `groups:"basic,detailed"`
}

func (d *Departure) RouteRef() string {
	return d.Trip.RouteRef
}

func (d *Departure) Headsign() string {
	return d.Trip.Headsign
}

func (d *Departure) TripStop() *TripStop {
	return d.Trip.Stops[d.StopIndex]
}

// SortDepartures orders departures by time, then walking distance, stop and trip identifier
func SortDepartures(departures []*Departure) {
	slices.SortStableFunc(departures, func(a, b *Departure) int {
		if c := a.Time.Compare(b.Time); c != 0 {
			return c
		}
		if a.WalkingDistance != b.WalkingDistance {
			if a.WalkingDistance < b.WalkingDistance {
				return -1
			}
			return 1
		}
		if c := strings.Compare(a.Stop.PrimaryIdentifier, b.Stop.PrimaryIdentifier); c != 0 {
			return c
		}
		return strings.Compare(a.Trip.PrimaryIdentifier, b.Trip.PrimaryIdentifier)
	})
}
