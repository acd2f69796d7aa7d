package testutil

// Helpers for building GTFS static fixtures and stub upstream APIs.

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// BuildZip packs files (name -> lines) into an in-memory ZIP.
func BuildZip(t testing.TB, files map[string][]string) []byte {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for filename, content := range files {
		f, err := w.Create(filename)
		require.NoError(t, err)
		_, err = f.Write([]byte(strings.Join(content, "\n")))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

// BuildStaticZip fills in header-only versions of any required table
// missing from files, then packs the ZIP. frequencies.txt is only
// included if given.
func BuildStaticZip(t testing.TB, files map[string][]string) []byte {
	if files["routes.txt"] == nil {
		files["routes.txt"] = []string{"route_id,route_long_name"}
	}
	if files["stops.txt"] == nil {
		files["stops.txt"] = []string{"stop_id,stop_code,stop_name,stop_lat,stop_lon"}
	}
	if files["trips.txt"] == nil {
		files["trips.txt"] = []string{"trip_id,route_id,service_id"}
	}
	if files["stop_times.txt"] == nil {
		files["stop_times.txt"] = []string{"trip_id,arrival_time,departure_time,stop_id,stop_sequence"}
	}

	return BuildZip(t, files)
}

// APIServer stubs a JSON API: requests are answered by path from
// responses, anything else 404s. Query strings are ignored.
func APIServer(t testing.TB, responses map[string]string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, found := responses[r.URL.Path]
		if !found {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// ZipServer serves buf as a GTFS ZIP under the given path.
func ZipServer(t testing.TB, path string, buf []byte) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Write(buf)
	}))
	t.Cleanup(server.Close)
	return server
}
