package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/tidwall/rtree"
	"github.com/travigo/journeyplanner/pkg/ctdf"
	"github.com/travigo/journeyplanner/pkg/dataimporter/formats/gtfs"
	"golang.org/x/exp/slices"
)

// Call is one scheduled visit of a trip at a stop
type Call struct {
	Trip  *ctdf.Trip
	Index int
}

func (c Call) TripStop() *ctdf.TripStop {
	return c.Trip.Stops[c.Index]
}

// Snapshot is an immutable, fully indexed timetable. Nothing in it is modified after FromSchedule returns.
type Snapshot struct {
	Version  string
	LoadedAt time.Time

	stops     map[string]*ctdf.Stop
	stopList  []*ctdf.Stop
	trips     map[string]*ctdf.Trip
	calls     map[string][]Call
	callCount int

	tree *rtree.RTree
}

// FromSchedule validates the GTFS records and builds the indexes used by the query engine.
// Malformed records produce a CollaboratorError.
func FromSchedule(schedule *gtfs.Schedule) (*Snapshot, error) {
	snapshot := &Snapshot{
		LoadedAt: time.Now(),
		stops:    make(map[string]*ctdf.Stop, len(schedule.Stops)),
		trips:    make(map[string]*ctdf.Trip, len(schedule.Trips)),
		calls:    map[string][]Call{},
		tree:     &rtree.RTree{},
	}

	for i, gtfsStop := range schedule.Stops {
		if gtfsStop.ID == "" {
			return nil, malformed("stops.txt", i, "empty stop_id")
		}
		if _, exists := snapshot.stops[gtfsStop.ID]; exists {
			return nil, malformed("stops.txt", i, "duplicate stop_id "+gtfsStop.ID)
		}

		location := ctdf.NewLocation(gtfsStop.Latitude, gtfsStop.Longitude)
		if !location.Valid() {
			return nil, malformed("stops.txt", i, fmt.Sprintf("stop %s has invalid coordinates %s", gtfsStop.ID, location))
		}

		stop := &ctdf.Stop{
			PrimaryIdentifier: gtfsStop.ID,
			PrimaryName:       gtfsStop.Name,
			Location:          location,
		}

		snapshot.stops[stop.PrimaryIdentifier] = stop
		snapshot.stopList = append(snapshot.stopList, stop)

		point := [2]float64{location.Latitude(), location.Longitude()}
		snapshot.tree.Insert(point, point, stop)
	}

	slices.SortFunc(snapshot.stopList, func(a, b *ctdf.Stop) int {
		return strings.Compare(a.PrimaryIdentifier, b.PrimaryIdentifier)
	})

	for i, gtfsTrip := range schedule.Trips {
		if gtfsTrip.ID == "" {
			return nil, malformed("trips.txt", i, "empty trip_id")
		}
		if _, exists := snapshot.trips[gtfsTrip.ID]; exists {
			return nil, malformed("trips.txt", i, "duplicate trip_id "+gtfsTrip.ID)
		}

		snapshot.trips[gtfsTrip.ID] = &ctdf.Trip{
			PrimaryIdentifier: gtfsTrip.ID,
			RouteRef:          gtfsTrip.RouteID,
			Headsign:          gtfsTrip.Headsign,
			Stops:             []*ctdf.TripStop{},
		}
	}

	for i, stopTime := range schedule.StopTimes {
		trip, exists := snapshot.trips[stopTime.TripID]
		if !exists {
			return nil, malformed("stop_times.txt", i, "unknown trip_id "+stopTime.TripID)
		}
		stop, exists := snapshot.stops[stopTime.StopID]
		if !exists {
			return nil, malformed("stop_times.txt", i, "unknown stop_id "+stopTime.StopID)
		}

		arrivalTime, departureTime, err := parseStopTimeTimes(stopTime)
		if err != nil {
			return nil, malformed("stop_times.txt", i, err.Error())
		}

		trip.Stops = append(trip.Stops, &ctdf.TripStop{
			Stop:          stop,
			Sequence:      stopTime.StopSequence,
			ArrivalTime:   arrivalTime,
			DepartureTime: departureTime,
			NoPickup:      stopTime.PickupType == gtfs.StopTimeServiceNotAvailable,
			NoDropOff:     stopTime.DropOffType == gtfs.StopTimeServiceNotAvailable,
		})
	}

	for _, trip := range snapshot.trips {
		slices.SortStableFunc(trip.Stops, func(a, b *ctdf.TripStop) int {
			return a.Sequence - b.Sequence
		})

		for index, tripStop := range trip.Stops {
			if index > 0 {
				previous := trip.Stops[index-1]
				if previous.Sequence == tripStop.Sequence {
					return nil, malformedTrip(trip, fmt.Sprintf("duplicate stop_sequence %d", tripStop.Sequence))
				}
				if tripStop.ArrivalTime < previous.DepartureTime {
					return nil, malformedTrip(trip, fmt.Sprintf("stop_sequence %d arrives before the previous departure", tripStop.Sequence))
				}
			}

			stopIdentifier := tripStop.Stop.PrimaryIdentifier
			snapshot.calls[stopIdentifier] = append(snapshot.calls[stopIdentifier], Call{Trip: trip, Index: index})
			snapshot.callCount++
		}
	}

	for _, calls := range snapshot.calls {
		slices.SortFunc(calls, func(a, b Call) int {
			if diff := int(a.TripStop().DepartureTime) - int(b.TripStop().DepartureTime); diff != 0 {
				return diff
			}
			if c := strings.Compare(a.Trip.PrimaryIdentifier, b.Trip.PrimaryIdentifier); c != 0 {
				return c
			}
			return a.Index - b.Index
		})
	}

	snapshot.Version = scheduleVersion(schedule)

	return snapshot, nil
}

func parseStopTimeTimes(stopTime gtfs.StopTime) (ctdf.TimeOfDay, ctdf.TimeOfDay, error) {
	arrival := stopTime.ArrivalTime
	departure := stopTime.DepartureTime

	// Either time may be left blank when both are the same
	if arrival == "" {
		arrival = departure
	}
	if departure == "" {
		departure = arrival
	}
	if arrival == "" {
		return 0, 0, fmt.Errorf("trip %s stop_sequence %d has no times", stopTime.TripID, stopTime.StopSequence)
	}

	arrivalTime, err := ctdf.ParseTimeOfDay(arrival)
	if err != nil {
		return 0, 0, err
	}
	departureTime, err := ctdf.ParseTimeOfDay(departure)
	if err != nil {
		return 0, 0, err
	}

	if departureTime < arrivalTime {
		return 0, 0, fmt.Errorf("trip %s stop_sequence %d departs before it arrives", stopTime.TripID, stopTime.StopSequence)
	}

	return arrivalTime, departureTime, nil
}

func malformed(file string, row int, reason string) error {
	return &ctdf.CollaboratorError{
		Collaborator: "timetable",
		Err:          fmt.Errorf("%s record %d: %s", file, row+1, reason),
	}
}

func malformedTrip(trip *ctdf.Trip, reason string) error {
	return &ctdf.CollaboratorError{
		Collaborator: "timetable",
		Err:          fmt.Errorf("trip %s: %s", trip.PrimaryIdentifier, reason),
	}
}

// scheduleVersion is a content hash so identical schedules always share a version
func scheduleVersion(schedule *gtfs.Schedule) string {
	digest := xxhash.New()

	write := func(values ...string) {
		for _, value := range values {
			digest.WriteString(value)
			digest.Write([]byte{0})
		}
	}

	for _, stop := range schedule.Stops {
		write(stop.ID, stop.Name,
			strconv.FormatFloat(stop.Latitude, 'f', -1, 64),
			strconv.FormatFloat(stop.Longitude, 'f', -1, 64))
	}
	for _, trip := range schedule.Trips {
		write(trip.ID, trip.RouteID, trip.Headsign)
	}
	for _, stopTime := range schedule.StopTimes {
		write(stopTime.TripID, stopTime.StopID, stopTime.ArrivalTime, stopTime.DepartureTime,
			strconv.Itoa(stopTime.StopSequence),
			strconv.Itoa(int(stopTime.PickupType)),
			strconv.Itoa(int(stopTime.DropOffType)))
	}

	return strconv.FormatUint(digest.Sum64(), 16)
}

func (s *Snapshot) Stop(identifier string) (*ctdf.Stop, bool) {
	stop, exists := s.stops[identifier]
	return stop, exists
}

func (s *Snapshot) Trip(identifier string) (*ctdf.Trip, bool) {
	trip, exists := s.trips[identifier]
	return trip, exists
}

// Stops returns every stop ordered by identifier
func (s *Snapshot) Stops() []*ctdf.Stop {
	return s.stopList
}

// Calls returns the calls at a stop ordered by scheduled departure time then trip identifier
func (s *Snapshot) Calls(stopIdentifier string) []Call {
	return s.calls[stopIdentifier]
}

func (s *Snapshot) StopCount() int {
	return len(s.stops)
}

func (s *Snapshot) TripCount() int {
	return len(s.trips)
}

func (s *Snapshot) CallCount() int {
	return s.callCount
}
