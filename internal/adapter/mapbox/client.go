// Package mapbox implements forward geocoding against the Mapbox
// Geocoding API, with an in-memory LRU cache decorator.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/situation-synthesis-service/internal/domain"
	"github.com/couchcryptid/situation-synthesis-service/internal/observability"
)

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		logger:  logger,
		metrics: metrics,
	}
}

// Geocode converts a location name to coordinates and place details.
// A location that Mapbox cannot resolve returns the zero result and no error.
func (c *Client) Geocode(ctx context.Context, location string) (domain.GeocodingResult, error) {
	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(location))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality,neighborhood,address"},
	}

	c.metrics.GeocodeRequests.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GeocodeErrors.Inc()
		return domain.GeocodingResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeErrors.Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodingResult{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		c.metrics.GeocodeErrors.Inc()
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		c.logger.Debug("no geocoding match", "location", location)
		return domain.GeocodingResult{}, nil
	}

	f := mapboxResp.Features[0]
	result := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
	}
	if len(f.Center) == 2 {
		// Mapbox uses lon,lat order.
		result.Lon = f.Center[0]
		result.Lat = f.Center[1]
	}
	return result, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}
