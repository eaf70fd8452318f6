package ctdf

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortDepartures(t *testing.T) {
	base := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)
	stopA := &Stop{PrimaryIdentifier: "A"}
	stopB := &Stop{PrimaryIdentifier: "B"}
	trip1 := &Trip{PrimaryIdentifier: "1"}
	trip2 := &Trip{PrimaryIdentifier: "2"}

	departures := []*Departure{
		{Trip: trip2, Stop: stopA, Time: base, WalkingDistance: 10},
		{Trip: trip1, Stop: stopB, Time: base.Add(time.Minute), WalkingDistance: 5},
		{Trip: trip1, Stop: stopA, Time: base, WalkingDistance: 10},
		{Trip: trip1, Stop: stopB, Time: base, WalkingDistance: 2},
	}

	SortDepartures(departures)

	var order []string
	for _, departure := range departures {
		order = append(order, departure.Stop.PrimaryIdentifier+departure.Trip.PrimaryIdentifier)
	}
	assert.Equal(t, []string{"B1", "A1", "A2", "B1"}, order)
	assert.Equal(t, base.Add(time.Minute), departures[3].Time)
}

func TestTripNext(t *testing.T) {
	trip := testTrip()

	assert.Equal(t, "M", trip.Next(0).Stop.PrimaryIdentifier)
	assert.Nil(t, trip.Next(2))
	assert.Nil(t, trip.Next(-1))
	assert.Equal(t, 2, trip.IndexOf("B"))
	assert.Equal(t, -1, trip.IndexOf("Z"))
}

func TestErrors(t *testing.T) {
	var err error = &NotFoundError{Resource: "Trip", Identifier: "X"}
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", err), ErrNotFound))
	assert.Equal(t, "Trip not found: X", err.Error())
	assert.Equal(t, "Route not found", (&NotFoundError{Resource: "Route"}).Error())

	cause := errors.New("disk on fire")
	err = &CollaboratorError{Collaborator: "timetable store", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, ErrNotFound))

	assert.Equal(t, "Parameter limit must be an integer", (&InputError{Parameter: "limit", Reason: "must be an integer"}).Error())
}
