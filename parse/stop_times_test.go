package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStopTimes(t *testing.T) {
	stopTimes, err := ParseStopTimes(strings.NewReader(strings.Join([]string{
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
		"7,06:05:00,06:05:30,501,1",
		"7,25:30:15,25:30:15,502,2",
	}, "\n")))
	require.NoError(t, err)

	require.Len(t, stopTimes, 2)
	assert.Equal(t, uint64(7), stopTimes[0].TripID)
	assert.Equal(t, uint64(501), stopTimes[0].StopID)
	assert.Equal(t, uint32(1), stopTimes[0].StopSequence)
	assert.Equal(t, int64(6*3600+5*60), stopTimes[0].Arrival.Seconds)
	assert.Equal(t, int64(6*3600+5*60+30), stopTimes[0].Departure.Seconds)

	// Post-midnight times survive
	assert.Equal(t, int64(91815), stopTimes[1].Arrival.Seconds)
	assert.Equal(t, "25:30:15", stopTimes[1].Arrival.Raw)
}

func TestParseStopTimesDropsBadRows(t *testing.T) {
	stopTimes, err := ParseStopTimes(strings.NewReader(strings.Join([]string{
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
		"7,06:05:00,06:05:00,501,1",
		"x,06:06:00,06:06:00,501,2",  // non-numeric trip_id
		"7,6am,06:07:00,501,3",       // malformed day-time
		"7,06:08:00,06:08:00,501,",   // missing stop_sequence
		"7,06:09:00,06:09:00,,5",     // missing stop_id
		"7,06:10:00,06:10:00,502,6",
	}, "\n")))
	require.NoError(t, err)

	require.Len(t, stopTimes, 2)
	assert.Equal(t, uint64(501), stopTimes[0].StopID)
	assert.Equal(t, uint64(502), stopTimes[1].StopID)
}

func TestParseStopTimesKeepsFileOrder(t *testing.T) {
	// Deliberately not sorted by trip or sequence; trip matching
	// depends on file order surviving the load.
	stopTimes, err := ParseStopTimes(strings.NewReader(strings.Join([]string{
		"trip_id,arrival_time,departure_time,stop_id,stop_sequence",
		"9,10:00:00,10:00:00,503,1",
		"7,06:05:00,06:05:00,501,1",
		"8,09:00:00,09:00:00,502,1",
	}, "\n")))
	require.NoError(t, err)

	require.Len(t, stopTimes, 3)
	assert.Equal(t, uint64(9), stopTimes[0].TripID)
	assert.Equal(t, uint64(7), stopTimes[1].TripID)
	assert.Equal(t, uint64(8), stopTimes[2].TripID)
}
