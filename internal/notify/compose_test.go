package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
)

func baseCycle() *sos.AlertCycle {
	return &sos.AlertCycle{
		Trigger:   sos.Trigger{Source: sos.SourceButton},
		UserName:  "Priya",
		UserEmail: "priya@example.com",
		StartedAt: time.Date(2026, 2, 14, 21, 30, 0, 0, time.UTC),
	}
}

// TestComposeIsPure: identical cycles yield byte-identical bodies.
func TestComposeIsPure(t *testing.T) {
	t.Parallel()

	cycle := baseCycle()
	cycle.Location = &sos.LocationSample{Latitude: 12.97, Longitude: 77.59, Source: "Browser Geolocation"}
	cycle.Address = &sos.AddressDetails{FullAddress: "MG Road, Bengaluru", City: "Bengaluru"}

	require.Equal(t, Compose(cycle), Compose(cycle))
	require.Equal(t, Compose(cycle), Compose(cycle.Clone()))
}

// TestComposeFullBody pins the section contents for a fully populated cycle.
func TestComposeFullBody(t *testing.T) {
	t.Parallel()

	cycle := baseCycle()
	cycle.Trigger = sos.Trigger{Source: sos.SourceVoice, Keyword: "help"}
	cycle.Location = &sos.LocationSample{
		Latitude: 12.97, Longitude: 77.59, AccuracyM: 20, Source: "Browser Geolocation",
	}
	cycle.Address = &sos.AddressDetails{
		FullAddress: "MG Road, Bengaluru, Karnataka, India",
		Street:      "MG Road",
		City:        "Bengaluru",
		State:       "Karnataka",
		PostalCode:  sos.FieldUnknown,
		Country:     "India",
	}
	cycle.Hospitals = &sos.ServiceResult{
		Category: sos.CategoryHospital,
		Status:   sos.SearchOK,
		Matches: []sos.ServiceMatch{
			{
				ServicePoint: sos.ServicePoint{
					Name: "City Hospital", Latitude: 12.98, Longitude: 77.6, Address: "MG Road",
				},
				DistanceKm: 3.204,
			},
		},
	}
	cycle.Police = &sos.ServiceResult{
		Category: sos.CategoryPolice,
		Status:   sos.SearchNoneWithinRadius,
		Message:  "No Police Station found within 10 km based on available data.",
	}

	body := Compose(cycle)

	require.Contains(t, body, "URGENT: SOS Alert from Priya (priya@example.com)!")
	require.Contains(t, body, `Activated via voice trigger ("help").`)
	require.Contains(t, body, "Coordinates: Latitude 12.97, Longitude 77.59")
	require.Contains(t, body, "Accuracy: 20 meters")
	require.Contains(t, body, "View Location on Map: https://www.google.com/maps/search/?api=1&query=12.97,77.59")
	require.Contains(t, body, "Full Address: MG Road, Bengaluru, Karnataka, India")
	require.Contains(t, body, "City: Bengaluru")
	// Unknown components are skipped, not rendered as markers.
	require.NotContains(t, body, "Postal Code")
	require.Contains(t, body, "- City Hospital (3.2 km), Address: MG Road [Map: https://www.google.com/maps/search/?api=1&query=12.98,77.6]")
	require.Contains(t, body, "Nearest Police Stations: No Police Station found within 10 km")
	require.Contains(t, body, "This is an automated alert")
	require.Contains(t, body, "Timestamp: 2026-02-14 21:30:00")
}

// TestComposeLocationError stops the location section at the error.
func TestComposeLocationError(t *testing.T) {
	t.Parallel()

	cycle := baseCycle()
	cycle.Location = &sos.LocationSample{
		Err: &sos.LocationError{
			Kind:    sos.LocationPermissionDenied,
			Message: "Permission denied",
			Source:  "Browser Geolocation Error",
		},
	}

	body := Compose(cycle)
	require.Contains(t, body, "Could not retrieve initial location details: Permission denied")
	require.Contains(t, body, "Source: Browser Geolocation Error")
	require.NotContains(t, body, "Coordinates:")
	require.NotContains(t, body, "Address Details")
}

// TestComposeAddressPriority checks the error/info/fallback chain.
func TestComposeAddressPriority(t *testing.T) {
	t.Parallel()

	cycle := baseCycle()
	cycle.Location = &sos.LocationSample{Latitude: 12.97, Longitude: 77.59, Source: "Browser Geolocation"}

	// Lookup error wins when no address is present.
	cycle.AddressErr = &sos.GeocodeError{
		Kind:    sos.GeocodeTimeoutOrUnavailable,
		Message: "geocoding service error: context deadline exceeded",
	}
	require.Contains(t, Compose(cycle), "Address Lookup Error: geocoding service error")

	// Info is used when there is no error.
	cycle.AddressErr = nil
	cycle.AddressInfo = "Address lookup is not configured."
	require.Contains(t, Compose(cycle), "Address Lookup Info: Address lookup is not configured.")

	// Explicit fallback when nothing at all is known.
	cycle.AddressInfo = ""
	require.Contains(t, Compose(cycle), "Detailed address information not available.")
}

// TestComposeNeverPanics: every combination of optional data renders a
// body with exactly one location section and one services section.
func TestComposeNeverPanics(t *testing.T) {
	t.Parallel()

	locations := []*sos.LocationSample{
		nil,
		{Latitude: 12.97, Longitude: 77.59, Source: "Browser Geolocation"},
		{Err: &sos.LocationError{Kind: sos.LocationTimeout, Message: "Timeout"}},
	}
	addresses := []*sos.AddressDetails{nil, {FullAddress: "MG Road", City: "Bengaluru"}}
	addressErrs := []*sos.GeocodeError{nil, {Kind: sos.GeocodeNoAddressFound, Message: "no match"}}
	results := []*sos.ServiceResult{
		nil,
		{Status: sos.SearchOK, Matches: []sos.ServiceMatch{{DistanceKm: 1.5}}},
		{Status: sos.SearchUnavailable, Message: "No Hospital data available to search."},
		{Status: sos.SearchNoValidData, Message: "No Hospital found in the dataset with valid coordinates."},
	}

	for _, location := range locations {
		for _, address := range addresses {
			for _, addressErr := range addressErrs {
				for _, hospitals := range results {
					for _, police := range results {
						cycle := baseCycle()
						cycle.Location = location
						cycle.Address = address
						cycle.AddressErr = addressErr
						cycle.Hospitals = hospitals
						cycle.Police = police

						body := Compose(cycle)
						require.Equal(t, 1, strings.Count(body, "--- Last Known Location Details ---"))
						require.Equal(t, 1, strings.Count(body, "--- Nearest Emergency Services (if available) ---"))
					}
				}
			}
		}
	}
}

// TestComposeNoServiceData prints a single line when both categories are absent.
func TestComposeNoServiceData(t *testing.T) {
	t.Parallel()

	body := Compose(baseCycle())
	require.Contains(t, body, "No nearest emergency service data available.")
}

// TestFormatDistanceKm pins the two-decimal, no-trailing-zero rendering.
func TestFormatDistanceKm(t *testing.T) {
	t.Parallel()

	require.Equal(t, "3.2", FormatDistanceKm(3.204))
	require.Equal(t, "3.21", FormatDistanceKm(3.2091))
	require.Equal(t, "0", FormatDistanceKm(0.0))
	require.Equal(t, "10", FormatDistanceKm(10.0001))
}
