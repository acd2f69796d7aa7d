package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequencies(t *testing.T) {
	frequencies, err := ParseFrequencies(strings.NewReader(strings.Join([]string{
		"trip_id,start_time,end_time,headway_secs,exact_times",
		"7,06:00:00,22:00:00,600,0",
		"9,22:00:00,26:00:00,1200,1",
	}, "\n")))
	require.NoError(t, err)

	require.Len(t, frequencies, 2)
	assert.Equal(t, uint64(7), frequencies[0].TripID)
	assert.Equal(t, int64(21600), frequencies[0].StartTime.Seconds)
	assert.Equal(t, int64(79200), frequencies[0].EndTime.Seconds)
	assert.Equal(t, int64(600), frequencies[0].HeadwaySecs)
	assert.Equal(t, uint8(1), frequencies[1].ExactTimes)

	// End time past midnight
	assert.Equal(t, int64(26*3600), frequencies[1].EndTime.Seconds)
}

func TestParseFrequenciesDropsBadRows(t *testing.T) {
	frequencies, err := ParseFrequencies(strings.NewReader(strings.Join([]string{
		"trip_id,start_time,end_time,headway_secs,exact_times",
		"7,06:00:00,22:00:00,600,0",
		"x,06:00:00,22:00:00,600,0", // non-numeric trip_id
		"8,6am,22:00:00,600,0",      // malformed start_time
		"9,06:00:00,22:00:00,0,0",   // zero headway
		"10,06:00:00,22:00:00,900,", // missing exact_times defaults to 0
	}, "\n")))
	require.NoError(t, err)

	require.Len(t, frequencies, 2)
	assert.Equal(t, uint64(7), frequencies[0].TripID)
	assert.Equal(t, uint64(10), frequencies[1].TripID)
	assert.Equal(t, uint8(0), frequencies[1].ExactTimes)
}

func TestParseRoutesAndStopsDropBadRows(t *testing.T) {
	routes, err := ParseRoutes(strings.NewReader(strings.Join([]string{
		"route_id,route_long_name,route_type",
		"31,Campus Loop,3",
		",Nameless,3",
		"not-a-number,Broken,3",
	}, "\n")))
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "Campus Loop", routes[0].LongName)

	stops, err := ParseStops(strings.NewReader(strings.Join([]string{
		"stop_id,stop_code,stop_name,stop_lat,stop_lon",
		"501,C1,Library,43.08,-77.67",
		"502,C2,Union,north,-77.66", // bad latitude
		",C3,Gym,43.07,-77.65",      // missing id
	}, "\n")))
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "C1", stops[0].Code)
}
