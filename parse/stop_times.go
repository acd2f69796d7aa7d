package parse

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/opentransit/translocrt/daytime"
	"github.com/opentransit/translocrt/model"
)

type stopTimeCSV struct {
	TripID        string `csv:"trip_id"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
	StopID        string `csv:"stop_id"`
	StopSequence  string `csv:"stop_sequence"`
}

// ParseStopTimes decodes stop_times.txt in file order. Rows with
// malformed ids, sequence numbers or day-times are dropped.
func ParseStopTimes(data io.Reader) ([]model.StopTime, error) {
	stopTimes := []model.StopTime{}

	err := gocsv.UnmarshalToCallback(data, func(st stopTimeCSV) {
		tripID, err := strconv.ParseUint(st.TripID, 10, 64)
		if err != nil {
			return
		}
		stopID, err := strconv.ParseUint(st.StopID, 10, 64)
		if err != nil {
			return
		}
		stopSequence, err := strconv.ParseUint(st.StopSequence, 10, 32)
		if err != nil {
			return
		}
		arrival, err := daytime.Parse(st.ArrivalTime)
		if err != nil {
			return
		}
		departure, err := daytime.Parse(st.DepartureTime)
		if err != nil {
			return
		}

		stopTimes = append(stopTimes, model.StopTime{
			TripID:       tripID,
			Arrival:      arrival,
			Departure:    departure,
			StopID:       stopID,
			StopSequence: uint32(stopSequence),
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling stop_times csv")
	}

	return stopTimes, nil
}
