// Package parse decodes a GTFS static ZIP into model records.
//
// TransLoc's exports are sloppy in the usual ways (BOMs, loose
// quoting, stray columns), so decoding is deliberately forgiving:
// rows that fail to decode are dropped rather than failing the load.
package parse

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"github.com/opentransit/translocrt/model"
)

// Static holds the five decoded tables in file order. Iteration order
// of Trips and StopTimes matters downstream: trip matching is
// first-match-wins over the CSV order.
type Static struct {
	Routes      []model.Route
	Stops       []model.Stop
	Trips       []model.Trip
	StopTimes   []model.StopTime
	Frequencies []model.Frequency
}

// ParseStatic decodes the GTFS tables from a ZIP archive.
// frequencies.txt is optional; the other four tables are required.
func ParseStatic(buf []byte) (*Static, error) {
	file := map[string]io.ReadCloser{
		"routes.txt":      nil,
		"stops.txt":       nil,
		"trips.txt":       nil,
		"stop_times.txt":  nil,
		"frequencies.txt": nil,
	}

	defer func() {
		for _, rc := range file {
			if rc != nil {
				rc.Close()
			}
		}
	}()

	r, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("unzipping: %w", err)
	}

	for _, f := range r.File {
		// There should not be any subdirectories. But, some
		// agencies don't care.
		if f.FileInfo().IsDir() {
			continue
		}
		path := strings.Split(f.Name, "/")
		fName := path[len(path)-1]

		if _, found := file[fName]; !found {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}

		file[fName] = rc
	}

	for _, required := range []string{"routes.txt", "stops.txt", "trips.txt", "stop_times.txt"} {
		if file[required] == nil {
			return nil, fmt.Errorf("missing %s", required)
		}
	}

	// LazyCSVReader required (at least) to survive sloppy use of
	// quotes. The BOM reader strips unicode BOMs if present.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})

	static := &Static{}

	static.Routes, err = ParseRoutes(file["routes.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing routes.txt: %w", err)
	}

	static.Stops, err = ParseStops(file["stops.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing stops.txt: %w", err)
	}

	static.Trips, err = ParseTrips(file["trips.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing trips.txt: %w", err)
	}

	static.StopTimes, err = ParseStopTimes(file["stop_times.txt"])
	if err != nil {
		return nil, fmt.Errorf("parsing stop_times.txt: %w", err)
	}

	// Fixed-schedule agencies ship no frequencies.txt at all.
	if file["frequencies.txt"] != nil {
		static.Frequencies, err = ParseFrequencies(file["frequencies.txt"])
		if err != nil {
			return nil, fmt.Errorf("parsing frequencies.txt: %w", err)
		}
	}

	return static, nil
}
