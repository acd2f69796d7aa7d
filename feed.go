package translocrt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	proto "google.golang.org/protobuf/proto"

	"golang.org/x/sync/errgroup"
)

// arrivalUncertaintySecs is attached to every emitted stop time
// event; upstream gives no confidence measure of its own.
const arrivalUncertaintySecs = 60

func mphToMetersPerSecond(mph float32) float32 {
	return mph * 0.44704
}

// ArrivalEntities correlates every live arrival and emits a
// trip-update entity per match, plus a vehicle-position entity when
// the vehicle is known. Arrivals that don't correlate are dropped.
// The result is deduplicated by entity id, first occurrence wins;
// repeated arrivals for one vehicle collapse to a single
// vehicle-position.
func (s *Schedule) ArrivalEntities() []*gtfsrt.FeedEntity {
	entities := []*gtfsrt.FeedEntity{}

	for _, arrival := range s.Arrivals {
		descriptor, stopTime, found := s.FindTrip(arrival)
		if !found {
			continue
		}

		vehicle, vehicleKnown := s.Vehicles[arrival.VehicleID]

		var vehicleDescriptor *gtfsrt.VehicleDescriptor
		feedTimestamp := uint64(s.now().Unix())
		if vehicleKnown {
			vehicleDescriptor = &gtfsrt.VehicleDescriptor{
				Id:    proto.String(strconv.FormatUint(arrival.VehicleID, 10)),
				Label: proto.String(vehicle.CallName),
			}
			feedTimestamp = vehicle.Timestamp / 1000
		}

		stopID := proto.String(strconv.FormatUint(stopTime.StopID, 10))

		entities = append(entities, &gtfsrt.FeedEntity{
			Id: proto.String(fmt.Sprintf("%d-%d", stopTime.TripID, arrival.Timestamp)),
			TripUpdate: &gtfsrt.TripUpdate{
				Trip:    descriptor,
				Vehicle: vehicleDescriptor,
				StopTimeUpdate: []*gtfsrt.TripUpdate_StopTimeUpdate{{
					StopSequence:         proto.Uint32(stopTime.StopSequence),
					StopId:               stopID,
					Arrival:              stopTimeEvent(arrival.Timestamp),
					Departure:            stopTimeEvent(arrival.Timestamp),
					ScheduleRelationship: gtfsrt.TripUpdate_StopTimeUpdate_SCHEDULED.Enum(),
				}},
				Timestamp: proto.Uint64(feedTimestamp),
			},
		})

		if vehicleKnown {
			entities = append(entities, &gtfsrt.FeedEntity{
				Id: proto.String(fmt.Sprintf("vehicle-%d", vehicle.ID)),
				Vehicle: &gtfsrt.VehiclePosition{
					Trip:    descriptor,
					Vehicle: vehicleDescriptor,
					Position: &gtfsrt.Position{
						Latitude:  proto.Float32(vehicle.Position[0]),
						Longitude: proto.Float32(vehicle.Position[1]),
						Bearing:   proto.Float32(vehicle.Heading),
						Speed:     proto.Float32(mphToMetersPerSecond(vehicle.Speed)),
					},
					CurrentStopSequence: proto.Uint32(stopTime.StopSequence),
					StopId:              stopID,
					CurrentStatus:       gtfsrt.VehiclePosition_IN_TRANSIT_TO.Enum(),
					Timestamp:           proto.Uint64(vehicle.Timestamp / 1000),
				},
			})
		}
	}

	return dedupeEntities(entities)
}

func stopTimeEvent(timestamp int64) *gtfsrt.TripUpdate_StopTimeEvent {
	return &gtfsrt.TripUpdate_StopTimeEvent{
		Time:        proto.Int64(timestamp),
		Uncertainty: proto.Int32(arrivalUncertaintySecs),
	}
}

func dedupeEntities(entities []*gtfsrt.FeedEntity) []*gtfsrt.FeedEntity {
	seen := map[string]bool{}
	deduped := []*gtfsrt.FeedEntity{}
	for _, entity := range entities {
		if seen[entity.GetId()] {
			continue
		}
		seen[entity.GetId()] = true
		deduped = append(deduped, entity)
	}
	return deduped
}

// BuildFeed produces the full feed for one request: alerts and the
// schedule load run concurrently, then arrivals are correlated. A
// failing announcements fetch degrades to no alerts; everything else
// is essential.
func (l *Loader) BuildFeed(
	ctx context.Context,
	agencyID uint64,
	agencyCode string,
	transitWorkaround bool,
) (*gtfsrt.FeedMessage, error) {

	var alerts []*gtfsrt.FeedEntity
	var schedule *Schedule

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		alerts = AlertEntities(gctx, l.Client, agencyID, l.Log)
		return nil
	})

	g.Go(func() error {
		var err error
		schedule, err = l.LoadSchedule(gctx, agencyID, agencyCode, transitWorkaround)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	entity := append(alerts, schedule.ArrivalEntities()...)

	now := time.Now
	if l.TimeNow != nil {
		now = l.TimeNow
	}

	return &gtfsrt.FeedMessage{
		Header: &gtfsrt.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfsrt.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now().Unix())),
		},
		Entity: entity,
	}, nil
}
