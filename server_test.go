package translocrt

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	proto "google.golang.org/protobuf/proto"

	"github.com/opentransit/translocrt/testutil"
)

func feedServer(t *testing.T) *httptest.Server {
	arrivalTS := time.Date(2024, 3, 15, 6, 25, 20, 0, nyLoc(t)).Unix()
	api := testutil.APIServer(t, liveResponses(arrivalTS))
	static := testutil.ZipServer(t, staticZipPath, campusZip(t))

	loader := testLoader(t, api, static)
	server := httptest.NewServer(NewRouter(log.New(io.Discard, "", 0), loader))
	t.Cleanup(server.Close)
	return server
}

func getFeed(t *testing.T, url string) *gtfsrt.FeedMessage {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.google.protobuf", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	feed := &gtfsrt.FeedMessage{}
	require.NoError(t, proto.Unmarshal(body, feed))
	return feed
}

func TestServerFeed(t *testing.T) {
	server := feedServer(t)

	feed := getFeed(t, server.URL+"/rt/72/testagency")

	assert.Equal(t, "2.0", feed.GetHeader().GetGtfsRealtimeVersion())
	require.Len(t, feed.GetEntity(), 3)

	tu := feed.GetEntity()[1].GetTripUpdate()
	require.NotNil(t, tu)
	assert.Equal(t, "7", tu.GetTrip().GetTripId())
	assert.Equal(t, "06:20:00", tu.GetTrip().GetStartTime())
}

func TestServerFeedTransitWorkaround(t *testing.T) {
	server := feedServer(t)

	feed := getFeed(t, server.URL+"/rt/72/testagency?transit_workaround=true")

	require.Len(t, feed.GetEntity(), 3)
	tu := feed.GetEntity()[1].GetTripUpdate()
	require.NotNil(t, tu)

	// Start time folded into the trip id
	assert.Equal(t, "7_22800", tu.GetTrip().GetTripId())
	assert.Nil(t, tu.GetTrip().StartTime)
}

func TestServerFeedText(t *testing.T) {
	server := feedServer(t)

	resp, err := http.Get(server.URL + "/rt/72/testagency?text=true")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gtfs_realtime_version")
	assert.Contains(t, string(body), "trip_update")
}

func TestServerBadAgencyID(t *testing.T) {
	server := feedServer(t)

	resp, err := http.Get(server.URL + "/rt/abc/testagency")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "agency_id must be an unsigned integer")
}

func TestServerUpstreamFailure(t *testing.T) {
	arrivalTS := time.Date(2024, 3, 15, 6, 25, 20, 0, nyLoc(t)).Unix()
	api := testutil.APIServer(t, liveResponses(arrivalTS))
	static := testutil.ZipServer(t, "/other.zip", campusZip(t))

	loader := testLoader(t, api, static)
	server := httptest.NewServer(NewRouter(log.New(io.Discard, "", 0), loader))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/rt/72/testagency")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Error serving request")
}

func TestServerHealthRoute(t *testing.T) {
	server := feedServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", resp.Header.Get("Application-Status"))
}
