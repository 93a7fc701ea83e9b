// Package place looks up a business phone number or website for a
// store through a place-search HTTP service.
package place

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

// Config selects the place-search endpoint.
type Config struct {
	BaseURL string
	Token   string
}

// Match is the single best result the service returned.
type Match struct {
	Phone   string
	Website string
}

// Client issues one synchronous lookup per store.
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

// Lookup returns at most one best-match phone/website for the store, or
// (nil, nil) when the service finds nothing.
func (c *Client) Lookup(ctx context.Context, name, address, city, state string) (*Match, error) {
	base := strings.TrimSpace(c.cfg.BaseURL)
	if base == "" {
		return nil, errors.New("place base url missing")
	}
	if strings.TrimSpace(c.cfg.Token) == "" {
		return nil, errors.New("place token missing")
	}

	query := strings.Join(compact(name, address, city, state), ", ")
	form := url.Values{}
	form.Set("q", query)
	form.Set("limit", "1")
	form.Set("access_token", c.cfg.Token)

	endpoint := strings.TrimRight(base, "/") + "/search?" + form.Encode()
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
		return nil, fmt.Errorf("place status %d", resp.StatusCode)
	}

	var decoded struct {
		Results []struct {
			Phone   string `json:"phone"`
			Website string `json:"website"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if len(decoded.Results) == 0 {
		return nil, nil
	}
	best := decoded.Results[0]
	if best.Phone == "" && best.Website == "" {
		return nil, nil
	}
	return &Match{Phone: best.Phone, Website: best.Website}, nil
}

func compact(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
