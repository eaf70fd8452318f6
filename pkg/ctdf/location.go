package ctdf

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const EarthRadiusMeters = 6371000.0

// Location is a GeoJSON style point, Coordinates are stored as [longitude, latitude]
type Location struct {
	Type        string    `json:"-" groups:"basic"`
	Coordinates []float64 `json:"coordinates" groups:"basic"`
}

func NewLocation(latitude float64, longitude float64) Location {
	return Location{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

var ErrInvalidCoordinates = errors.New("coordinates must be in 'lat,lon' format")

// ParseLocation reads a "lat,lon" decimal degree pair
func ParseLocation(value string) (Location, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return Location{}, ErrInvalidCoordinates
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Location{}, ErrInvalidCoordinates
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Location{}, ErrInvalidCoordinates
	}

	location := NewLocation(latitude, longitude)
	if !location.Valid() {
		return Location{}, ErrInvalidCoordinates
	}

	return location, nil
}

func (l Location) Latitude() float64 {
	if len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[1]
}

func (l Location) Longitude() float64 {
	if len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[0]
}

func (l Location) Valid() bool {
	if len(l.Coordinates) != 2 {
		return false
	}

	lat, lon := l.Latitude(), l.Longitude()
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}

	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func (l Location) Equal(other Location) bool {
	return l.Latitude() == other.Latitude() && l.Longitude() == other.Longitude()
}

func (l Location) String() string {
	return fmt.Sprintf("%f,%f", l.Latitude(), l.Longitude())
}

// Distance returns the great-circle distance in meters using the Haversine formula
func (l Location) Distance(other Location) float64 {
	lat1, lon1 := l.Latitude(), l.Longitude()
	lat2, lon2 := other.Latitude(), other.Longitude()

	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(deltaPhi / 2)
	sinLambda := math.Sin(deltaLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// Rounding can push a just outside [0, 1] for near antipodal points
	a = math.Max(0, math.Min(1, a))

	return EarthRadiusMeters * 2 * math.Asin(math.Sqrt(a))
}
