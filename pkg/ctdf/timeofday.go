package ctdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a scheduled time as seconds after the service day reference instant.
// Values past 24:00:00 are valid for trips running after midnight.
type TimeOfDay int

func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", value)
	}

	var fields [3]int
	for i, part := range parts {
		if part == "" {
			return 0, fmt.Errorf("invalid time %q: empty field", value)
		}

		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q: %s is not a number", value, part)
		}
		fields[i] = n
	}

	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("invalid time %q: minutes and seconds must be below 60", value)
	}

	return TimeOfDay(fields[0]*3600 + fields[1]*60 + fields[2]), nil
}

func (t TimeOfDay) String() string {
	seconds := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

// On returns the absolute instant of this time on the given service day
func (t TimeOfDay) On(serviceDay time.Time) time.Time {
	return serviceDay.Add(t.Duration())
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// ServiceDay returns the reference instant of the calendar date of dateTime in location.
// Scheduled times count from noon minus 12h, which is midnight except on daylight saving
// changeover days, so wall clock times are kept on those days too.
func ServiceDay(dateTime time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}

	local := dateTime.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, location).Add(-12 * time.Hour)
}
