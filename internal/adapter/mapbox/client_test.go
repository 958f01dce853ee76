package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/situation-synthesis-service/internal/observability"
)

func newTestClient(serverURL string) *Client {
	return &Client{
		token:      "test-token",
		httpClient: &http.Client{Timeout: time.Second},
		baseURL:    serverURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func TestGeocode(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"features": [{
				"center": [-74.006, 40.7128],
				"place_name": "Downtown District, New York, United States",
				"text": "Downtown District",
				"relevance": 0.95
			}]
		}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.Geocode(context.Background(), "Downtown District")
	require.NoError(t, err)

	assert.Equal(t, "/Downtown District.json", gotPath)
	assert.Equal(t, "test-token", gotQuery.Get("access_token"))
	assert.Equal(t, "1", gotQuery.Get("limit"))

	assert.Equal(t, 40.7128, result.Lat)
	assert.Equal(t, -74.006, result.Lon)
	assert.Equal(t, "Downtown District, New York, United States", result.FormattedAddress)
	assert.Equal(t, "Downtown District", result.PlaceName)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestGeocodeNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features": []}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	result, err := c.Geocode(context.Background(), "Nowhere Special")
	require.NoError(t, err)
	assert.Zero(t, result)
}

func TestGeocodeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Geocode(context.Background(), "Downtown District")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestGeocodeMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Geocode(context.Background(), "Downtown District")
	assert.Error(t, err)
}

func TestGeocodeContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Geocode(ctx, "Downtown District")
	assert.Error(t, err)
}
