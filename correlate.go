package translocrt

import (
	"fmt"
	"math"
	"strconv"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	proto "google.golang.org/protobuf/proto"

	"github.com/opentransit/translocrt/daytime"
	"github.com/opentransit/translocrt/model"
	"github.com/opentransit/translocrt/transloc"
)

// matchSlack is the tolerance applied when comparing an arrival
// against scheduled times, on either side.
const matchSlack = 10 * 60

// nearby reports whether an arrival (in service-day seconds) is
// within the match tolerance of a scheduled time.
func nearby(arrivalSecs, scheduledSecs int64) bool {
	delta := arrivalSecs - scheduledSecs
	return delta < matchSlack && delta > -matchSlack
}

// withinBuffer reports whether an arrival falls inside a frequency's
// validity window, widened by the match tolerance on both ends.
func withinBuffer(startSecs, arrivalSecs, endSecs int64) bool {
	return startSecs-matchSlack < arrivalSecs && arrivalSecs < endSecs+matchSlack
}

// FindTrip resolves a live arrival to a scheduled trip instance and
// stop-time row.
//
// The live and static feeds use independent id spaces, joined only by
// human-readable keys: live route id -> route long name -> static
// route, and live stop id -> stop code -> static stop. Any broken
// link means the arrival can't be matched.
//
// Candidate trips are scanned in CSV order and the first match wins.
// For frequency-based trips the match is at trip-instance level: the
// first stop-time of the trip inside the (widened) validity window
// decides the iteration, regardless of which stop it belongs to. For
// fixed trips the stop-time must be at the resolved stop and within
// the match tolerance of the arrival.
func (s *Schedule) FindTrip(arrival transloc.Arrival) (*gtfsrt.TripDescriptor, *model.StopTime, bool) {
	route, found := s.Routes[arrival.RouteID]
	if !found {
		s.debugf("arrival for unknown route %d", arrival.RouteID)
		return nil, nil, false
	}
	staticRoute, found := s.RoutesByLongName[route.LongName]
	if !found {
		s.debugf("no static route named %q", route.LongName)
		return nil, nil, false
	}

	var stop *transloc.Stop
	for i := range route.Stops {
		if route.Stops[i].ID == arrival.StopID {
			stop = &route.Stops[i]
			break
		}
	}
	if stop == nil {
		s.debugf("stop %d not on route %q", arrival.StopID, route.LongName)
		return nil, nil, false
	}
	staticStop, found := s.StopsByCode[stop.Code]
	if !found {
		s.debugf("no static stop with code %q", stop.Code)
		return nil, nil, false
	}

	arrivalSecs := daytime.ServiceDaySeconds(arrival.Timestamp, s.Timezone)

	for t := range s.Trips {
		trip := &s.Trips[t]
		if trip.RouteID != staticRoute.ID {
			continue
		}

		if frequency, ok := s.FrequenciesByTrip[trip.ID]; ok {
			for i := range s.StopTimes {
				stopTime := &s.StopTimes[i]
				if stopTime.TripID != trip.ID {
					continue
				}
				if !withinBuffer(frequency.StartTime.Seconds, arrivalSecs, frequency.EndTime.Seconds) {
					continue
				}

				iteration := math.Round(
					float64(arrivalSecs-stopTime.Arrival.Seconds) / float64(frequency.HeadwaySecs),
				)
				if iteration < 0 {
					iteration = 0
				}
				startSecs := frequency.StartTime.Seconds + int64(iteration)*frequency.HeadwaySecs

				return frequencyTripDescriptor(trip, startSecs, s.TransitWorkaround), stopTime, true
			}
		} else {
			for i := range s.StopTimes {
				stopTime := &s.StopTimes[i]
				if stopTime.TripID != trip.ID {
					continue
				}
				if stopTime.StopID != staticStop.ID {
					continue
				}
				if !nearby(arrivalSecs, stopTime.Arrival.Seconds) {
					continue
				}

				return fixedTripDescriptor(trip), stopTime, true
			}
		}
	}

	s.debugf("no scheduled trip for arrival vehicle=%d route=%d stop=%d ts=%d",
		arrival.VehicleID, arrival.RouteID, arrival.StopID, arrival.Timestamp)
	return nil, nil, false
}

// frequencyTripDescriptor identifies a trip instance of a
// frequency-based trip. Some consumers key solely on trip_id, which
// is ambiguous for headway trips; the workaround encodes the start
// time into the id instead of exposing it via start_time.
func frequencyTripDescriptor(trip *model.Trip, startSecs int64, workaround bool) *gtfsrt.TripDescriptor {
	descriptor := &gtfsrt.TripDescriptor{
		RouteId:              proto.String(strconv.FormatUint(trip.RouteID, 10)),
		ScheduleRelationship: gtfsrt.TripDescriptor_SCHEDULED.Enum(),
	}

	if workaround {
		descriptor.TripId = proto.String(fmt.Sprintf("%d_%d", trip.ID, startSecs))
	} else {
		descriptor.TripId = proto.String(strconv.FormatUint(trip.ID, 10))
		descriptor.StartTime = proto.String(daytime.Format(startSecs))
	}

	return descriptor
}

func fixedTripDescriptor(trip *model.Trip) *gtfsrt.TripDescriptor {
	return &gtfsrt.TripDescriptor{
		TripId:  proto.String(strconv.FormatUint(trip.ID, 10)),
		RouteId: proto.String(strconv.FormatUint(trip.RouteID, 10)),
	}
}
