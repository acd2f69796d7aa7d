// Package transloc is a minimal client for the TransLoc feeds API.
package transloc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://feeds.transloc.com/3"

// Client fetches live agency data. The zero value is not usable; use
// NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Stops fetches all stops for an agency, along with the thin route
// records mapping each route to its ordered stop ids.
func (c *Client) Stops(ctx context.Context, agencyID uint64) (*StopsResponse, error) {
	out := &StopsResponse{}
	url := fmt.Sprintf("%s/stops?include_routes=true&agencies=%d", c.BaseURL, agencyID)
	if err := c.getJSON(ctx, url, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Routes fetches the full route records for an agency.
func (c *Client) Routes(ctx context.Context, agencyID uint64) (*RoutesResponse, error) {
	out := &RoutesResponse{}
	url := fmt.Sprintf("%s/routes?agencies=%d", c.BaseURL, agencyID)
	if err := c.getJSON(ctx, url, out); err != nil {
		return nil, err
	}
	return out, nil
}

// VehicleStatuses fetches current vehicles and their predicted
// arrivals.
func (c *Client) VehicleStatuses(ctx context.Context, agencyID uint64) (*VehicleStatusesResponse, error) {
	out := &VehicleStatusesResponse{}
	url := fmt.Sprintf("%s/vehicle_statuses?agencies=%d&include_arrivals=true", c.BaseURL, agencyID)
	if err := c.getJSON(ctx, url, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Announcements fetches rider announcements with their HTML contents.
func (c *Client) Announcements(ctx context.Context, agencyID uint64) (*AnnouncementsResponse, error) {
	out := &AnnouncementsResponse{}
	url := fmt.Sprintf("%s/announcements?contents=true&agencies=%d", c.BaseURL, agencyID)
	if err := c.getJSON(ctx, url, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("requesting %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s: %w", url, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}

	return nil
}
