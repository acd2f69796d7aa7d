package translocrt

import (
	"context"
	"log"
	"strconv"
	"time"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	proto "google.golang.org/protobuf/proto"

	"github.com/opentransit/translocrt/transloc"
)

// AlertEntities maps the agency's announcements to alert entities.
// Announcements are non-essential: a failed fetch logs and yields an
// empty list rather than failing the feed.
func AlertEntities(ctx context.Context, client *transloc.Client, agencyID uint64, logger *log.Logger) []*gtfsrt.FeedEntity {
	resp, err := client.Announcements(ctx, agencyID)
	if err != nil {
		if logger != nil {
			logger.Printf("couldn't request announcements: %s", err)
		}
		return []*gtfsrt.FeedEntity{}
	}

	entities := make([]*gtfsrt.FeedEntity, 0, len(resp.Announcements))
	for _, announcement := range resp.Announcements {
		period := &gtfsrt.TimeRange{}
		// start_at is RFC 3339; an unparseable value leaves the
		// period open-ended on both sides.
		if startAt, err := time.Parse(time.RFC3339, announcement.StartAt); err == nil {
			period.Start = proto.Uint64(uint64(startAt.Unix()))
		}

		entities = append(entities, &gtfsrt.FeedEntity{
			Id: proto.String(strconv.FormatUint(announcement.ID, 10)),
			Alert: &gtfsrt.Alert{
				ActivePeriod: []*gtfsrt.TimeRange{period},
				InformedEntity: []*gtfsrt.EntitySelector{{
					AgencyId: proto.String(strconv.FormatUint(agencyID, 10)),
				}},
				Cause:           gtfsrt.Alert_UNKNOWN_CAUSE.Enum(),
				Effect:          gtfsrt.Alert_UNKNOWN_EFFECT.Enum(),
				HeaderText:      translation(announcement.Title),
				DescriptionText: translation(announcement.HTML),
			},
		})
	}

	return entities
}

// translation wraps text as a TranslatedString with a single
// language-less translation.
func translation(text string) *gtfsrt.TranslatedString {
	return &gtfsrt.TranslatedString{
		Translation: []*gtfsrt.TranslatedString_Translation{{
			Text: proto.String(text),
		}},
	}
}
