package utils

import (
	"fmt"
	"time"
)

// Date-only command line timestamp
type Timestamp struct {
	t time.Time
}

func (ts *Timestamp) UnmarshalText(b []byte) error {
	// Hack for the default value of date flags
	if string(b) == "today" {
		ts.t = Today()
		return nil
	}

	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return fmt.Errorf("Only the date-only format (\"YYYY-MM-DD\") is allowed. Got %s", b)
	}
	ts.t = t
	return nil
}

// Returns the wrapped time, or today's date if the flag was not set
func (ts *Timestamp) Time() time.Time {
	if ts == nil {
		return Today()
	}
	return ts.t
}

// Midnight UTC of the current day
func Today() time.Time {
	year, month, day := time.Now().UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
