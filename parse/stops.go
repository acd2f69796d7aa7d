package parse

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/opentransit/translocrt/model"
)

type stopCSV struct {
	ID           string `csv:"stop_id"`
	Code         string `csv:"stop_code"`
	Name         string `csv:"stop_name"`
	Desc         string `csv:"stop_desc"`
	Lat          string `csv:"stop_lat"`
	Lon          string `csv:"stop_lon"`
	URL          string `csv:"stop_url"`
	LocationType string `csv:"location_type"`
}

// ParseStops decodes stops.txt. Rows missing a numeric stop_id or a
// parseable position are dropped.
func ParseStops(data io.Reader) ([]model.Stop, error) {
	stops := []model.Stop{}

	err := gocsv.UnmarshalToCallback(data, func(s stopCSV) {
		id, err := strconv.ParseUint(s.ID, 10, 64)
		if err != nil {
			return
		}
		lat, err := strconv.ParseFloat(s.Lat, 64)
		if err != nil {
			return
		}
		lon, err := strconv.ParseFloat(s.Lon, 64)
		if err != nil {
			return
		}

		locationType, _ := strconv.ParseUint(s.LocationType, 10, 64)

		stops = append(stops, model.Stop{
			ID:           id,
			Code:         s.Code,
			Name:         s.Name,
			Desc:         s.Desc,
			Lat:          lat,
			Lon:          lon,
			URL:          s.URL,
			LocationType: locationType,
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling stops csv")
	}

	return stops, nil
}
