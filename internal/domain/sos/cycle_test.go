package sos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestLocationSampleClone verifies deep copies and nil safety.
func TestLocationSampleClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*LocationSample)(nil).Clone())

	s := &LocationSample{
		Latitude:  12.97,
		Longitude: 77.59,
		AccuracyM: 20,
		Source:    "Browser Geolocation",
	}

	c := s.Clone()
	require.Equal(t, s, c)
	require.NotSame(t, s, c)

	failed := &LocationSample{
		Source: "Browser Geolocation Error",
		Err: &LocationError{
			Kind:    LocationPermissionDenied,
			Message: "Permission denied",
		},
	}

	fc := failed.Clone()
	require.Equal(t, failed.Err, fc.Err)
	require.NotSame(t, failed.Err, fc.Err)
	require.True(t, fc.Failed())
}

// TestAlertCycleClone verifies the aggregate deep copy.
func TestAlertCycleClone(t *testing.T) {
	t.Parallel()

	cycle := &AlertCycle{
		Key:       "42b9e9e1",
		Trigger:   Trigger{Source: SourceVoice, Keyword: "help"},
		UserName:  "Priya",
		UserEmail: "priya@example.com",
		StartedAt: time.Now(),
		Status:    StatusSearchingServices,
		Location:  &LocationSample{Latitude: 12.97, Longitude: 77.59},
		Address:   &AddressDetails{FullAddress: "MG Road, Bengaluru", City: "Bengaluru"},
		Hospitals: &ServiceResult{
			Category: CategoryHospital,
			Status:   SearchOK,
			Matches: []ServiceMatch{
				{ServicePoint: ServicePoint{Name: "City Hospital"}, DistanceKm: 3.2},
			},
		},
		Recipients: []string{"a@example.com"},
	}

	c := cycle.Clone()
	require.Equal(t, cycle, c)
	require.NotSame(t, cycle.Location, c.Location)
	require.NotSame(t, cycle.Address, c.Address)
	require.NotSame(t, cycle.Hospitals, c.Hospitals)

	// Mutating the clone's slices must not touch the original.
	c.Recipients[0] = "b@example.com"
	require.Equal(t, "a@example.com", cycle.Recipients[0])
}

// TestClearResults verifies the dependent state wiped on retrigger/failure.
func TestClearResults(t *testing.T) {
	t.Parallel()

	cycle := &AlertCycle{
		Location:    &LocationSample{Latitude: 1},
		Address:     &AddressDetails{City: "Bengaluru"},
		AddressErr:  &GeocodeError{Kind: GeocodeTimeoutOrUnavailable},
		AddressInfo: "lookup skipped",
		Hospitals:   &ServiceResult{Status: SearchOK},
		Police:      &ServiceResult{Status: SearchUnavailable},
		Recipients:  []string{"a@example.com"},
		Body:        "text",
	}

	cycle.ClearResults()
	require.Nil(t, cycle.Location)
	require.Nil(t, cycle.Address)
	require.Nil(t, cycle.AddressErr)
	require.Empty(t, cycle.AddressInfo)
	require.Nil(t, cycle.Hospitals)
	require.Nil(t, cycle.Police)
	require.Nil(t, cycle.Recipients)
	require.Empty(t, cycle.Body)
}

// TestCycleStatusTerminal pins the terminal status set.
func TestCycleStatusTerminal(t *testing.T) {
	t.Parallel()

	terminal := []CycleStatus{
		StatusSent, StatusSkippedNoContacts, StatusSkippedNoTransport,
		StatusFailedLocation, StatusFailedDispatch,
	}
	for _, s := range terminal {
		require.True(t, s.Terminal(), s)
	}

	inFlight := []CycleStatus{
		StatusIdle, StatusAwaitingLocation, StatusGeocoding,
		StatusSearchingServices, StatusComposing, StatusDispatching,
	}
	for _, s := range inFlight {
		require.False(t, s.Terminal(), s)
	}
}

// TestClassifyLocationError maps the W3C error codes.
func TestClassifyLocationError(t *testing.T) {
	t.Parallel()

	require.Equal(t, LocationPermissionDenied, ClassifyLocationError(1))
	require.Equal(t, LocationUnavailable, ClassifyLocationError(2))
	require.Equal(t, LocationTimeout, ClassifyLocationError(3))
	require.Equal(t, LocationUnknown, ClassifyLocationError(0))
	require.Equal(t, LocationUnknown, ClassifyLocationError(99))
}

// TestValidEmails filters contacts down to syntactically usable addresses.
func TestValidEmails(t *testing.T) {
	t.Parallel()

	contacts := []Contact{
		{Name: "Amma", Email: "amma@example.com"},
		{Name: "No Email", Phone: "+91 98450 00000"},
		{Name: "Broken", Email: "not-an-address"},
		{Name: "Friend", Email: "friend@example.org"},
	}

	require.Equal(t, []string{"amma@example.com", "friend@example.org"}, ValidEmails(contacts))
	require.Nil(t, ValidEmails(nil))
}

// TestMapsLink pins the Google Maps URL format used in alert bodies.
func TestMapsLink(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=12.97,77.59",
		MapsLink(12.97, 77.59))
}
