package transloc

// Types mirroring the TransLoc feeds API JSON. Ids here are assigned
// by TransLoc and are unrelated to the ids in the agency's GTFS
// static export.

type Stop struct {
	Code         string     `json:"code"`
	Description  string     `json:"description"`
	ID           uint64     `json:"id"`
	LocationType string     `json:"location_type"`
	Name         string     `json:"name"`
	Position     [2]float64 `json:"position"`
	URL          string     `json:"url"`
}

// A ThinRoute is the abbreviated route record returned by the stops
// endpoint: just the route id and its ordered stop ids.
type ThinRoute struct {
	ID    uint64   `json:"id"`
	Stops []uint64 `json:"stops"`
}

type Route struct {
	AgencyID    uint64 `json:"agency_id"`
	Color       string `json:"color"`
	Description string `json:"description"`
	ID          uint64 `json:"id"`
	IsActive    bool   `json:"is_active"`
	LongName    string `json:"long_name"`
	ShortName   string `json:"short_name"`
	TextColor   string `json:"text_color"`
	Type        string `json:"type"`
	URL         string `json:"url"`
}

// An Arrival is an upstream prediction of a vehicle reaching a stop.
// Timestamp is in epoch seconds. TripID uses TransLoc's own trip
// namespace and is of no use against the static schedule.
type Arrival struct {
	AgencyID  uint64  `json:"agency_id"`
	CallName  string  `json:"call_name"`
	Distance  float64 `json:"distance"`
	Headsign  *string `json:"headsign"`
	RouteID   uint64  `json:"route_id"`
	StopID    uint64  `json:"stop_id"`
	Timestamp int64   `json:"timestamp"`
	TripID    *uint64 `json:"trip_id"`
	Type      string  `json:"type"`
	VehicleID uint64  `json:"vehicle_id"`
}

// A Vehicle as reported by vehicle_statuses. Timestamp is in epoch
// milliseconds, unlike every other timestamp in the API. Position is
// (lat, lon) and Speed is in miles per hour.
type Vehicle struct {
	ID            uint64     `json:"id"`
	CallName      string     `json:"call_name"`
	CurrentStopID *uint64    `json:"current_stop_id"`
	Heading       float32    `json:"heading"`
	Load          float64    `json:"load"`
	NextStop      *uint64    `json:"next_stop"`
	OffRoute      bool       `json:"off_route"`
	Position      [2]float32 `json:"position"`
	RouteID       uint64     `json:"route_id"`
	SegmentID     *uint64    `json:"segment_id"`
	Speed         float32    `json:"speed"`
	StopPatternID uint64     `json:"stop_pattern_id"`
	Timestamp     uint64     `json:"timestamp"`
	TripID        uint64     `json:"trip_id"`
}

type Announcement struct {
	AgencyID   uint64 `json:"agency_id"`
	Date       string `json:"date"`
	HasContent bool   `json:"has_content"`
	HTML       string `json:"html"`
	ID         uint64 `json:"id"`
	StartAt    string `json:"start_at"`
	Title      string `json:"title"`
	Urgent     bool   `json:"urgent"`
}

type StopsResponse struct {
	Routes []ThinRoute `json:"routes"`
	Stops  []Stop      `json:"stops"`
}

type RoutesResponse struct {
	Routes  []Route `json:"routes"`
	Success bool    `json:"success"`
}

type VehicleStatusesResponse struct {
	Arrivals []Arrival `json:"arrivals"`
	Vehicles []Vehicle `json:"vehicles"`
}

type AnnouncementsResponse struct {
	Announcements []Announcement `json:"announcements"`
	Success       bool           `json:"success"`
}
