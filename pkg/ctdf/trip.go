package ctdf

type Trip struct {
	PrimaryIdentifier string `groups:"basic,detailed"`
	RouteRef          string `groups:"basic,detailed"`
	Headsign          string `groups:"basic,detailed"`

	Stops []*TripStop `groups:"detailed"`
}

// TripStop is a single scheduled call of a Trip at a Stop
type TripStop struct {
	Stop     *Stop `groups:"basic,detailed"`
	Sequence int   `groups:"detailed"`

	ArrivalTime   TimeOfDay `groups:"basic,detailed"`
	DepartureTime TimeOfDay `groups:"basic,detailed"`

	NoPickup  bool `groups:"detailed"`
	NoDropOff bool `groups:"detailed"`
}

func (t *Trip) IndexOf(stopIdentifier string) int {
	for i, tripStop := range t.Stops {
		if tripStop.Stop.PrimaryIdentifier == stopIdentifier {
			return i
		}
	}

	return -1
}

// Next returns the call after index, or nil when the trip terminates there
func (t *Trip) Next(index int) *TripStop {
	if index+1 >= len(t.Stops) || index < 0 {
		return nil
	}

	return t.Stops[index+1]
}
