package model

// Holds the static schedule record types shared across packages.
//
// All identifiers are numeric in TransLoc's GTFS exports; they live in
// a different namespace than the ids used by the live feeds API, and
// the two are only joined through route long names and stop codes.

import (
	"github.com/opentransit/translocrt/daytime"
)

type Route struct {
	ID        uint64
	ShortName string
	LongName  string
	Desc      string
	URL       string
	Color     string
	TextColor string
	Type      uint64
}

type Stop struct {
	ID           uint64
	Code         string
	Name         string
	Desc         string
	Lat          float64
	Lon          float64
	URL          string
	LocationType uint64
}

type Trip struct {
	ID          uint64
	RouteID     uint64
	ServiceID   uint64
	Headsign    string
	ShortName   string
	DirectionID uint64
	ShapeID     string
	BlockID     string
}

type StopTime struct {
	TripID       uint64
	Arrival      daytime.DayTime
	Departure    daytime.DayTime
	StopID       uint64
	StopSequence uint32
}

// A Frequency makes its trip headway-based: the stop-time pattern
// repeats every HeadwaySecs between StartTime and EndTime. Trips
// without a Frequency row run at their literal stop-times.
type Frequency struct {
	TripID      uint64
	StartTime   daytime.DayTime
	EndTime     daytime.DayTime
	HeadwaySecs int64
	ExactTimes  uint8
}
