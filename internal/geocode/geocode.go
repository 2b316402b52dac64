// Package geocode adapts the external reverse-geocoding provider
// (a Nominatim-compatible HTTP endpoint) behind a small interface with a
// production client and a no-op implementation, selected at construction
// time by the caller.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
	"github.com/dhivyapriya/sos-guardian/internal/logger"
)

// Geocoder resolves coordinates into a structured address. Failures are
// returned as *sos.GeocodeError except for ErrUnconfigured.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (*sos.AddressDetails, error)
}

// ErrUnconfigured is returned by the no-op implementation: address lookup
// is simply not set up, which is an informational condition rather than a
// lookup failure.
var ErrUnconfigured = errors.New("reverse geocoding is not configured")

const (
	// DefaultBaseURL is the public Nominatim reverse endpoint.
	DefaultBaseURL = "https://nominatim.openstreetmap.org/reverse"
	// DefaultTimeout bounds one lookup end to end.
	DefaultTimeout = 15 * time.Second
	// defaultUserAgent identifies the application to the provider,
	// which requires a meaningful agent string.
	defaultUserAgent = "sos-guardian"
)

// Config holds the HTTP client parameters.
type Config struct {
	// BaseURL of the reverse endpoint; DefaultBaseURL when empty.
	BaseURL string
	// UserAgent sent with every request; a default is applied when empty.
	UserAgent string
	// Timeout per lookup; DefaultTimeout when zero.
	Timeout time.Duration
}

// Client is the production Nominatim adapter.
type Client struct {
	// baseURL of the reverse endpoint.
	baseURL string
	// userAgent sent with every request.
	userAgent string
	// timeout applied per lookup on top of the caller's context.
	timeout time.Duration
	// httpClient performs the requests.
	httpClient *http.Client
}

// NewClient creates a reverse-geocoding client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// nominatimResponse is the subset of the provider's JSON we consume.
type nominatimResponse struct {
	Error       string           `json:"error"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	HouseNumber   string `json:"house_number"`
	Road          string `json:"road"`
	Street        string `json:"street"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	District      string `json:"district"`
	County        string `json:"county"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`
	Country       string `json:"country"`
}

// ReverseGeocode resolves the coordinates into address details.
// Invalid input is rejected before any network call.
func (c *Client) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*sos.AddressDetails, error) {
	if err := validateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", sos.FormatCoordinate(latitude))
	query.Set("lon", sos.FormatCoordinate(longitude))

	requestURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &sos.GeocodeError{
			Kind:    sos.GeocodePreparation,
			Message: fmt.Sprintf("build request: %v", err),
			Source:  "Lookup Prep Error",
		}
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WarnKV(ctx, "Reverse geocoding request failed", "error", err)

		return nil, &sos.GeocodeError{
			Kind:    sos.GeocodeTimeoutOrUnavailable,
			Message: fmt.Sprintf("geocoding service error: %v", err),
			Source:  "Lookup API Error",
		}
	}
	//nolint:errcheck // Body close errors are not actionable here.
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &sos.GeocodeError{
			Kind:    sos.GeocodeTimeoutOrUnavailable,
			Message: fmt.Sprintf("geocoding service returned status %d", resp.StatusCode),
			Source:  "Lookup API Error",
		}
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &sos.GeocodeError{
			Kind:    sos.GeocodeProcessing,
			Message: fmt.Sprintf("decode response: %v", err),
			Source:  "Lookup Processing Error",
		}
	}

	// The provider reports "no match" inside a 200 response.
	if payload.Error != "" || payload.DisplayName == "" {
		return nil, &sos.GeocodeError{
			Kind:    sos.GeocodeNoAddressFound,
			Message: "no detailed address found for coordinates",
			Source:  "Lookup",
		}
	}

	return toAddressDetails(payload), nil
}

// validateCoordinates rejects values that must never reach the network.
func validateCoordinates(latitude, longitude float64) error {
	switch {
	case math.IsNaN(latitude) || math.IsNaN(longitude),
		math.IsInf(latitude, 0) || math.IsInf(longitude, 0):
		return &sos.GeocodeError{
			Kind:    sos.GeocodePreparation,
			Message: "invalid coordinates provided",
			Source:  "Lookup Prep Error",
		}
	case latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180:
		return &sos.GeocodeError{
			Kind:    sos.GeocodePreparation,
			Message: "coordinates out of range",
			Source:  "Lookup Prep Error",
		}
	default:
		return nil
	}
}

// toAddressDetails maps the provider payload onto the domain shape,
// applying the per-field fallback chains and the explicit unknown marker.
func toAddressDetails(payload nominatimResponse) *sos.AddressDetails {
	a := payload.Address

	return &sos.AddressDetails{
		FullAddress:   orUnknown(payload.DisplayName),
		HouseNumber:   orUnknown(a.HouseNumber),
		Street:        firstKnown(a.Street, a.Road),
		Neighbourhood: orUnknown(a.Neighbourhood),
		Suburb:        orUnknown(a.Suburb),
		City:          firstKnown(a.City, a.Town, a.Village),
		District:      firstKnown(a.District, a.County),
		State:         orUnknown(a.State),
		PostalCode:    orUnknown(a.Postcode),
		Country:       orUnknown(a.Country),
		Source:        "Nominatim",
	}
}

// firstKnown returns the first non-empty candidate, or the unknown marker.
func firstKnown(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}

	return sos.FieldUnknown
}

func orUnknown(v string) string {
	if v == "" {
		return sos.FieldUnknown
	}

	return v
}

// Noop is the no-op Geocoder used when lookup is disabled or unconfigured.
type Noop struct{}

// ReverseGeocode always reports the unconfigured condition.
func (Noop) ReverseGeocode(_ context.Context, _, _ float64) (*sos.AddressDetails, error) {
	return nil, ErrUnconfigured
}
