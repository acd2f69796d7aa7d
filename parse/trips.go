package parse

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/opentransit/translocrt/model"
)

type tripCSV struct {
	ID          string `csv:"trip_id"`
	RouteID     string `csv:"route_id"`
	ServiceID   string `csv:"service_id"`
	Headsign    string `csv:"trip_headsign"`
	ShortName   string `csv:"trip_short_name"`
	DirectionID string `csv:"direction_id"`
	ShapeID     string `csv:"shape_id"`
	BlockID     string `csv:"block_id"`
}

// ParseTrips decodes trips.txt in file order. Rows without numeric
// trip_id, route_id and service_id are dropped.
func ParseTrips(data io.Reader) ([]model.Trip, error) {
	trips := []model.Trip{}

	err := gocsv.UnmarshalToCallback(data, func(t tripCSV) {
		id, err := strconv.ParseUint(t.ID, 10, 64)
		if err != nil {
			return
		}
		routeID, err := strconv.ParseUint(t.RouteID, 10, 64)
		if err != nil {
			return
		}
		serviceID, err := strconv.ParseUint(t.ServiceID, 10, 64)
		if err != nil {
			return
		}

		directionID, _ := strconv.ParseUint(t.DirectionID, 10, 64)

		trips = append(trips, model.Trip{
			ID:          id,
			RouteID:     routeID,
			ServiceID:   serviceID,
			Headsign:    t.Headsign,
			ShortName:   t.ShortName,
			DirectionID: directionID,
			ShapeID:     t.ShapeID,
			BlockID:     t.BlockID,
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling trips csv")
	}

	return trips, nil
}
