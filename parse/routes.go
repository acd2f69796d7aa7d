package parse

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/opentransit/translocrt/model"
)

type routeCSV struct {
	ID        string `csv:"route_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Desc      string `csv:"route_desc"`
	URL       string `csv:"route_url"`
	Color     string `csv:"route_color"`
	TextColor string `csv:"route_text_color"`
	Type      string `csv:"route_type"`
}

// ParseRoutes decodes routes.txt. Rows without a numeric route_id are
// dropped.
func ParseRoutes(data io.Reader) ([]model.Route, error) {
	routes := []model.Route{}

	err := gocsv.UnmarshalToCallback(data, func(r routeCSV) {
		id, err := strconv.ParseUint(r.ID, 10, 64)
		if err != nil {
			return
		}

		// route_type is required by GTFS, but nothing downstream
		// reads it, so a bad value only zeroes the field.
		routeType, _ := strconv.ParseUint(r.Type, 10, 64)

		routes = append(routes, model.Route{
			ID:        id,
			ShortName: r.ShortName,
			LongName:  r.LongName,
			Desc:      r.Desc,
			URL:       r.URL,
			Color:     r.Color,
			TextColor: r.TextColor,
			Type:      routeType,
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling routes csv")
	}

	return routes, nil
}
