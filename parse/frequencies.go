package parse

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/opentransit/translocrt/daytime"
	"github.com/opentransit/translocrt/model"
)

type frequencyCSV struct {
	TripID      string `csv:"trip_id"`
	StartTime   string `csv:"start_time"`
	EndTime     string `csv:"end_time"`
	HeadwaySecs string `csv:"headway_secs"`
	ExactTimes  string `csv:"exact_times"`
}

// ParseFrequencies decodes frequencies.txt. Rows with malformed ids,
// day-times or headways are dropped. exact_times is optional and
// defaults to 0 (frequency-based, not exact).
func ParseFrequencies(data io.Reader) ([]model.Frequency, error) {
	frequencies := []model.Frequency{}

	err := gocsv.UnmarshalToCallback(data, func(f frequencyCSV) {
		tripID, err := strconv.ParseUint(f.TripID, 10, 64)
		if err != nil {
			return
		}
		start, err := daytime.Parse(f.StartTime)
		if err != nil {
			return
		}
		end, err := daytime.Parse(f.EndTime)
		if err != nil {
			return
		}
		headway, err := strconv.ParseInt(f.HeadwaySecs, 10, 64)
		if err != nil || headway <= 0 {
			return
		}

		exactTimes, _ := strconv.ParseUint(f.ExactTimes, 10, 8)

		frequencies = append(frequencies, model.Frequency{
			TripID:      tripID,
			StartTime:   start,
			EndTime:     end,
			HeadwaySecs: headway,
			ExactTimes:  uint8(exactTimes),
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling frequencies csv")
	}

	return frequencies, nil
}
