// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

// Package places is a client for the Google Places Nearby Search API.
//
// A search is either bounded by a radius or, when no radius is given,
// ordered by distance (rankby=distance). Both modes filter by place type.
// Zero results are returned as an empty slice; every other non-OK status
// is an error carrying the upstream status and message.
package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mealpick/internal/config"
	"github.com/tomtom215/mealpick/internal/metrics"
	"github.com/tomtom215/mealpick/internal/models"
)

const nearbySearchPath = "/maps/api/place/nearbysearch/json"

// maxErrorBodySize limits how much of a failed response is read into an error.
const maxErrorBodySize = 64 * 1024

// Search modes, also used as metric labels.
const (
	ModeRadius = "radius"
	ModeRankBy = "rankby"
)

// Upstream status values.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// ErrMissingAPIKey is returned when a search is attempted without a key.
var ErrMissingAPIKey = errors.New("places API key is not configured")

// APIError is a non-OK status returned in an HTTP 200 response body.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "places: " + e.Status
	}
	return fmt.Sprintf("places: %s: %s", e.Status, e.Message)
}

// nearbyResponse is the subset of the nearby-search response we use.
type nearbyResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []placeResult `json:"results"`
}

type placeResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Vicinity         string   `json:"vicinity"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
	PriceLevel       *int     `json:"price_level"`
	Geometry         *struct {
		Location *struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

func (p *placeResult) candidate() models.Candidate {
	c := models.Candidate{
		ID:         p.PlaceID,
		Name:       p.Name,
		Address:    p.Vicinity,
		Rating:     p.Rating,
		PriceLevel: p.PriceLevel,
	}
	if c.Address == "" {
		c.Address = p.FormattedAddress
	}
	if p.Geometry != nil && p.Geometry.Location != nil {
		c.Lat = p.Geometry.Location.Lat
		c.Lng = p.Geometry.Location.Lng
	}
	if len(p.Photos) > 0 {
		c.PhotoRef = p.Photos[0].PhotoReference
	}
	return c
}

// Client performs nearby searches. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	placeType  string
	maxResults int
	client     *http.Client
}

// NewClient creates a client from cfg. An empty API key is allowed; the
// client then reports HasCredential() == false and refuses to search.
func NewClient(cfg *config.PlacesConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		placeType:  cfg.PlaceType,
		maxResults: cfg.MaxResults,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// NearbySearch issues one nearby-search call around (lat, lng).
// A nil radius selects rank-by-distance mode.
func (c *Client) NearbySearch(ctx context.Context, lat, lng float64, radius *int) ([]models.Candidate, error) {
	mode := searchMode(radius)
	start := time.Now()
	candidates, err := c.nearbySearch(ctx, lat, lng, radius)
	metrics.RecordPlacesRequest(mode, time.Since(start), len(candidates), err)
	return candidates, err
}

func (c *Client) nearbySearch(ctx context.Context, lat, lng float64, radius *int) ([]models.Candidate, error) {
	if !c.HasCredential() {
		return nil, ErrMissingAPIKey
	}

	reqURL := c.baseURL + nearbySearchPath + "?" + c.query(lat, lng, radius).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create nearby search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// The request URL carries the key and errors reach the caller.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = c.baseURL + nearbySearchPath
		}
		return nil, fmt.Errorf("nearby search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("nearby search failed with status %d: %s", resp.StatusCode, string(body))
	}

	var payload nearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode nearby search response: %w", err)
	}

	switch payload.Status {
	case StatusOK:
	case StatusZeroResults:
		return []models.Candidate{}, nil
	default:
		return nil, &APIError{Status: payload.Status, Message: payload.ErrorMessage}
	}

	results := payload.Results
	if c.maxResults > 0 && len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	candidates := make([]models.Candidate, len(results))
	for i := range results {
		candidates[i] = results[i].candidate()
	}
	return candidates, nil
}

// query builds the request parameters. radius and rankby are mutually
// exclusive upstream.
func (c *Client) query(lat, lng float64, radius *int) url.Values {
	params := url.Values{}
	params.Set("location", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("type", c.placeType)
	if radius != nil {
		params.Set("radius", strconv.Itoa(*radius))
	} else {
		params.Set("rankby", "distance")
	}
	params.Set("key", c.apiKey)
	return params
}

func searchMode(radius *int) string {
	if radius == nil {
		return ModeRankBy
	}
	return ModeRadius
}

// readBodyForError reads at most maxErrorBodySize bytes of a failed response.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
