// Package translocrt adapts TransLoc live agency feeds into
// GTFS-realtime. Per request, it fetches the agency's live snapshot
// and static GTFS export, correlates each predicted arrival against
// the static schedule, and emits a FeedMessage of trip updates,
// vehicle positions and alerts.
package translocrt

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opentransit/translocrt/downloader"
	"github.com/opentransit/translocrt/model"
	"github.com/opentransit/translocrt/parse"
	"github.com/opentransit/translocrt/transloc"
)

const (
	DefaultStaticBaseURL  = "https://api.transloc.com/gtfs"
	DefaultStaticTimeout  = 60 * time.Second
	DefaultStaticMaxSize  = 100 << 20 // 100 MB
	DefaultStaticCacheTTL = 12 * time.Hour
	DefaultTimezone       = "America/New_York"
)

// A LiveRoute is a route from the live API joined with its ordered
// stop records.
type LiveRoute struct {
	ID       uint64
	LongName string
	Stops    []transloc.Stop
}

// Schedule is the per-request bundle of live and static data the
// correlation engine works on. Nothing mutates after construction.
//
// Trips and StopTimes keep CSV file order: trip matching is
// first-match-wins over that order.
type Schedule struct {
	Routes            map[uint64]LiveRoute
	RoutesByLongName  map[string]model.Route
	StopsByCode       map[string]model.Stop
	Trips             []model.Trip
	StopTimes         []model.StopTime
	FrequenciesByTrip map[uint64]model.Frequency
	Arrivals          []transloc.Arrival
	Vehicles          map[uint64]transloc.Vehicle

	Timezone          *time.Location
	TransitWorkaround bool

	TimeNow func() time.Time

	log *log.Logger
}

func (s *Schedule) now() time.Time {
	if s.TimeNow != nil {
		return s.TimeNow()
	}
	return time.Now()
}

func (s *Schedule) debugf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

// Loader fetches and assembles Schedules. A single Loader is shared
// across requests; the Downloader is the only cross-request state.
type Loader struct {
	Client        *transloc.Client
	Downloader    downloader.Downloader
	StaticBaseURL string
	Timezone      *time.Location

	StaticTimeout  time.Duration
	StaticMaxSize  int
	StaticCacheTTL time.Duration

	TimeNow func() time.Time

	Log *log.Logger
}

func NewLoader(logger *log.Logger) (*Loader, error) {
	timezone, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}

	return &Loader{
		Client:         transloc.NewClient(),
		Downloader:     downloader.NewMemory(),
		StaticBaseURL:  DefaultStaticBaseURL,
		Timezone:       timezone,
		StaticTimeout:  DefaultStaticTimeout,
		StaticMaxSize:  DefaultStaticMaxSize,
		StaticCacheTTL: DefaultStaticCacheTTL,
		Log:            logger,
	}, nil
}

// LoadSchedule fetches the static ZIP and the three live endpoints
// concurrently and joins the results. Any fetch failing fails the
// load; latency is that of the slowest fetch.
func (l *Loader) LoadSchedule(
	ctx context.Context,
	agencyID uint64,
	agencyCode string,
	transitWorkaround bool,
) (*Schedule, error) {

	var static *parse.Static
	var stops *transloc.StopsResponse
	var routes *transloc.RoutesResponse
	var statuses *transloc.VehicleStatusesResponse

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		url := fmt.Sprintf("%s/%s.zip", l.StaticBaseURL, agencyCode)
		buf, err := l.Downloader.Get(gctx, url, nil, downloader.GetOptions{
			MaxSize:  l.StaticMaxSize,
			Timeout:  l.StaticTimeout,
			Cache:    true,
			CacheTTL: l.StaticCacheTTL,
		})
		if err != nil {
			return fmt.Errorf("fetching %s: %w", url, err)
		}
		static, err = parse.ParseStatic(buf)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", url, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		stops, err = l.Client.Stops(gctx, agencyID)
		return err
	})

	g.Go(func() error {
		var err error
		routes, err = l.Client.Routes(gctx, agencyID)
		return err
	})

	g.Go(func() error {
		var err error
		statuses, err = l.Client.VehicleStatuses(gctx, agencyID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	liveRoutes, err := joinLiveRoutes(routes.Routes, stops)
	if err != nil {
		return nil, err
	}

	schedule := &Schedule{
		Routes:            liveRoutes,
		RoutesByLongName:  make(map[string]model.Route, len(static.Routes)),
		StopsByCode:       make(map[string]model.Stop, len(static.Stops)),
		Trips:             static.Trips,
		StopTimes:         static.StopTimes,
		FrequenciesByTrip: make(map[uint64]model.Frequency, len(static.Frequencies)),
		Arrivals:          statuses.Arrivals,
		Vehicles:          make(map[uint64]transloc.Vehicle, len(statuses.Vehicles)),
		Timezone:          l.Timezone,
		TransitWorkaround: transitWorkaround,
		TimeNow:           l.TimeNow,
		log:               l.Log,
	}

	for _, route := range static.Routes {
		schedule.RoutesByLongName[route.LongName] = route
	}
	for _, stop := range static.Stops {
		schedule.StopsByCode[stop.Code] = stop
	}
	for _, frequency := range static.Frequencies {
		schedule.FrequenciesByTrip[frequency.TripID] = frequency
	}
	for _, vehicle := range statuses.Vehicles {
		schedule.Vehicles[vehicle.ID] = vehicle
	}

	return schedule, nil
}

// joinLiveRoutes combines the full route records with the stop lists
// from the stops endpoint. A route present in /routes but absent from
// /stops means the upstream snapshot is self-inconsistent; that's
// fatal.
func joinLiveRoutes(routes []transloc.Route, stops *transloc.StopsResponse) (map[uint64]LiveRoute, error) {
	thinByID := make(map[uint64]transloc.ThinRoute, len(stops.Routes))
	for _, thin := range stops.Routes {
		thinByID[thin.ID] = thin
	}

	joined := make(map[uint64]LiveRoute, len(routes))
	for _, route := range routes {
		thin, found := thinByID[route.ID]
		if !found {
			return nil, fmt.Errorf("route %d doesn't exist on /stops", route.ID)
		}

		onRoute := make(map[uint64]bool, len(thin.Stops))
		for _, stopID := range thin.Stops {
			onRoute[stopID] = true
		}

		// Keep the order given by the stops endpoint.
		routeStops := []transloc.Stop{}
		for _, stop := range stops.Stops {
			if onRoute[stop.ID] {
				routeStops = append(routeStops, stop)
			}
		}

		joined[route.ID] = LiveRoute{
			ID:       route.ID,
			LongName: route.LongName,
			Stops:    routeStops,
		}
	}

	return joined, nil
}
