package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrZipNotFound means the geocoder answered but knows no such zip.
var ErrZipNotFound = fmt.Errorf("zip code not found")

// Nominatim geocodes US zip codes at request time through the public
// Nominatim search API.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewNominatim(baseURL string) *Nominatim {
	return &Nominatim{
		baseURL:   baseURL,
		userAgent: "providers-rag",
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// GeocodeZip resolves a US zip code to coordinates. Returns ErrZipNotFound
// when Nominatim has no match; any transport failure is returned as-is.
func (n *Nominatim) GeocodeZip(ctx context.Context, zip string) (float64, float64, error) {
	q := url.Values{}
	q.Set("q", PadZip(zip)+", USA")
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, ErrZipNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse nominatim lat: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse nominatim lon: %w", err)
	}

	return lat, lon, nil
}
