package translocrt

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentransit/translocrt/transloc"
)

func announcementsClient(t *testing.T, handler http.HandlerFunc) *transloc.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := transloc.NewClient()
	client.BaseURL = server.URL
	return client
}

func TestAlertEntities(t *testing.T) {
	client := announcementsClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/announcements", r.URL.Path)
		w.Write([]byte(`{
			"announcements": [
				{"agency_id": 72, "has_content": true, "html": "<p>Detour on Main St</p>",
				 "id": 301, "start_at": "2024-03-15T06:00:00-04:00", "title": "Detour", "urgent": false},
				{"agency_id": 72, "has_content": true, "html": "<p>No start date</p>",
				 "id": 302, "start_at": "soon", "title": "Vague"}
			],
			"success": true
		}`))
	})

	entities := AlertEntities(context.Background(), client, 72, nil)
	require.Len(t, entities, 2)

	assert.Equal(t, "301", entities[0].GetId())
	alert := entities[0].GetAlert()
	require.NotNil(t, alert)

	startAt, err := time.Parse(time.RFC3339, "2024-03-15T06:00:00-04:00")
	require.NoError(t, err)
	require.Len(t, alert.GetActivePeriod(), 1)
	assert.Equal(t, uint64(startAt.Unix()), alert.GetActivePeriod()[0].GetStart())
	assert.Nil(t, alert.GetActivePeriod()[0].End)

	require.Len(t, alert.GetInformedEntity(), 1)
	assert.Equal(t, "72", alert.GetInformedEntity()[0].GetAgencyId())
	assert.Equal(t, gtfsrt.Alert_UNKNOWN_CAUSE, alert.GetCause())
	assert.Equal(t, gtfsrt.Alert_UNKNOWN_EFFECT, alert.GetEffect())

	require.Len(t, alert.GetHeaderText().GetTranslation(), 1)
	assert.Equal(t, "Detour", alert.GetHeaderText().GetTranslation()[0].GetText())
	assert.Equal(t, "<p>Detour on Main St</p>", alert.GetDescriptionText().GetTranslation()[0].GetText())

	// Unparseable start_at: open-ended period
	vague := entities[1].GetAlert()
	require.Len(t, vague.GetActivePeriod(), 1)
	assert.Nil(t, vague.GetActivePeriod()[0].Start)
}

func TestAlertEntitiesFetchFailure(t *testing.T) {
	client := announcementsClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	entities := AlertEntities(context.Background(), client, 72, logger)
	assert.Empty(t, entities)
	assert.Contains(t, buf.String(), "couldn't request announcements")
}
