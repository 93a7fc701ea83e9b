// Package geocode fills missing coordinates on curated store records
// through a forward-geocoding HTTP service.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config selects the geocoding endpoint. Token is required; a missing
// token aborts the run before any row is processed. The inter-request
// delay is a property of the sweep, not the client: see Pass.
type Config struct {
	BaseURL string
	Token   string
}

func (cfg Config) endpoint() string {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return "https://api.mapbox.com/geocoding/v5/mapbox.places/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// Result is one best-match geocode: coordinates plus the re-normalized
// structured address when the service returns one.
type Result struct {
	Lat    float64
	Lng    float64
	Street string
	City   string
	State  string
	Zip    string
}

// Client issues one synchronous request per row.
type Client struct {
	http *http.Client
	cfg  Config
}

// NewClient builds a client; a nil httpClient gets a 30s-timeout default.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{http: httpClient, cfg: cfg}
}

// Forward geocodes a free-text address query. A service response with
// zero features is "no result": (nil, nil), not an error — the caller
// leaves the row unchanged for a future retry.
func (c *Client) Forward(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty geocode query")
	}
	if strings.TrimSpace(c.cfg.Token) == "" {
		return nil, errors.New("geocoder token missing")
	}

	endpoint := fmt.Sprintf("%s%s.json?access_token=%s&limit=1&country=US&language=en",
		c.cfg.endpoint(), url.PathEscape(query), url.QueryEscape(c.cfg.Token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocoder status %d", resp.StatusCode)
	}

	var decoded struct {
		Features []struct {
			Center     []float64 `json:"center"`
			Properties struct {
				Address string `json:"address"`
			} `json:"properties"`
			Text    string `json:"text"`
			Context []struct {
				ID   string `json:"id"`
				Text string `json:"text"`
			} `json:"context"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if len(decoded.Features) == 0 {
		return nil, nil
	}
	feat := decoded.Features[0]
	if len(feat.Center) < 2 {
		return nil, nil
	}

	result := &Result{Lng: feat.Center[0], Lat: feat.Center[1]}
	result.Street = strings.TrimSpace(strings.Join([]string{feat.Properties.Address, feat.Text}, " "))
	for _, entry := range feat.Context {
		switch {
		case strings.HasPrefix(entry.ID, "place"):
			result.City = entry.Text
		case strings.HasPrefix(entry.ID, "region"):
			result.State = entry.Text
		case strings.HasPrefix(entry.ID, "postcode"):
			result.Zip = entry.Text
		}
	}
	return result, nil
}
