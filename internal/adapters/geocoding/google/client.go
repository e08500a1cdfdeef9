package google

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"newleash/internal/apperror"
	"newleash/internal/platform/httpclient"
	"newleash/internal/ports/geocoding"
)

const (
	serviceName = "geocoding"

	DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func (c Config) IsConfigured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Client implementa geocoding.Geocoder con la Geocoding API de Google.
type Client struct {
	cfg  Config
	http *httpclient.Client
}

var _ geocoding.Geocoder = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		cfg:  cfg,
		http: httpclient.New(serviceName, cfg.Timeout),
	}
}

func (c *Client) SetObserver(o httpclient.Observer) {
	c.http.Observer = o
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *Client) Geocode(ctx context.Context, address string) (geocoding.Point, error) {
	if !c.cfg.IsConfigured() {
		return geocoding.Point{}, apperror.Unavailable(serviceName)
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return geocoding.Point{}, apperror.Invalid("address", "address is required")
	}

	var resp geocodeResponse
	q := url.Values{"address": {address}, "key": {c.cfg.APIKey}}
	if err := c.http.GetJSON(ctx, c.cfg.BaseURL, q, nil, &resp); err != nil {
		return geocoding.Point{}, apperror.Upstream(serviceName, err)
	}

	switch resp.Status {
	case "OK":
		if len(resp.Results) == 0 {
			return geocoding.Point{}, apperror.NotFound("address", address)
		}
		r := resp.Results[0]
		return geocoding.Point{
			Latitude:         r.Geometry.Location.Lat,
			Longitude:        r.Geometry.Location.Lng,
			FormattedAddress: r.FormattedAddress,
		}, nil
	case "ZERO_RESULTS":
		return geocoding.Point{}, apperror.NotFound("address", address)
	default:
		return geocoding.Point{}, apperror.Upstream(serviceName, fmt.Errorf("status %s: %s", resp.Status, resp.ErrorMessage))
	}
}
