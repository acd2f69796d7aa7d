// Package daytime handles GTFS day-times: clock times measured in
// seconds from the start of a service day. Hours may exceed 23 for
// trips that run past midnight (e.g. "25:30:00").
package daytime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// A DayTime is a parsed "HH:MM:SS" value. Raw carries the original
// string for diagnostics.
type DayTime struct {
	Raw     string
	Seconds int64
}

// Parse splits s on ":" into exactly three unsigned decimal
// components and returns the corresponding DayTime.
func Parse(s string) (DayTime, error) {
	split := strings.Split(s, ":")
	if len(split) != 3 {
		return DayTime{}, fmt.Errorf("found %d parts in '%s'", len(split), s)
	}

	hms := [3]int64{}
	for i, str := range split {
		j, err := strconv.ParseUint(str, 10, 32)
		if err != nil {
			return DayTime{}, fmt.Errorf("non-integer in '%s' pos %d", s, i)
		}
		hms[i] = int64(j)
	}

	return DayTime{
		Raw:     s,
		Seconds: hms[0]*3600 + hms[1]*60 + hms[2],
	}, nil
}

// UnmarshalCSV lets gocsv decode day-time columns directly.
func (d *DayTime) UnmarshalCSV(s string) error {
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalCSV is the inverse of UnmarshalCSV.
func (d DayTime) MarshalCSV() (string, error) {
	return Format(d.Seconds), nil
}

// Format renders seconds as "HH:MM:SS", each field zero-padded to two
// digits. Hours above 99 render with more digits rather than wrapping.
func Format(totalSeconds int64) string {
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// ServiceDaySeconds converts an epoch-second timestamp to seconds
// from the start of the service day in the given civil timezone.
//
// Events before 04:00 belong to the previous service day: a trip that
// left the garage before midnight carries stop-times >= 24:00:00, so
// the early-morning clock reading is shifted forward by a day to land
// in the same range.
func ServiceDaySeconds(timestamp int64, loc *time.Location) int64 {
	t := time.Unix(timestamp, 0).In(loc)
	secs := int64(t.Hour())*3600 + int64(t.Minute())*60 + int64(t.Second())
	if t.Hour() < 4 {
		return secs + 24*3600
	}
	return secs
}
