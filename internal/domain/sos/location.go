package sos

import "strconv"

// LocationErrorKind classifies why the browser could not provide a position.
type LocationErrorKind string

const (
	// LocationPermissionDenied means the user declined the geolocation prompt.
	LocationPermissionDenied LocationErrorKind = "permission_denied"
	// LocationUnavailable means the position could not be determined.
	LocationUnavailable LocationErrorKind = "unavailable"
	// LocationTimeout means the browser gave up waiting for a fix.
	LocationTimeout LocationErrorKind = "timeout"
	// LocationUnsupported means the browser has no geolocation API at all.
	LocationUnsupported LocationErrorKind = "unsupported"
	// LocationUnknown covers everything the browser did not classify.
	LocationUnknown LocationErrorKind = "unknown"
)

// LocationError is the error variant of a location sample.
type LocationError struct {
	// Kind is the classified failure reason.
	Kind LocationErrorKind
	// Message is the raw error text reported by the provider.
	Message string
	// Source tags where the error originated, e.g. "Browser Geolocation Error".
	Source string
}

// Error implements the error interface.
func (e *LocationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return string(e.Kind)
}

// ClassifyLocationError maps the W3C geolocation error codes
// (1 = permission denied, 2 = position unavailable, 3 = timeout)
// to a LocationErrorKind. Unknown codes fall through to LocationUnknown.
func ClassifyLocationError(code int) LocationErrorKind {
	switch code {
	case 1:
		return LocationPermissionDenied
	case 2:
		return LocationUnavailable
	case 3:
		return LocationTimeout
	default:
		return LocationUnknown
	}
}

// LocationSample is the result of one asynchronous location request.
// Exactly one of the coordinate fields or Err is meaningful: when Err is
// nil the sample holds a position, otherwise it is the error variant.
type LocationSample struct {
	// Latitude in decimal degrees.
	Latitude float64
	// Longitude in decimal degrees.
	Longitude float64
	// AccuracyM is the reported accuracy radius in meters; <= 0 means unknown.
	AccuracyM float64
	// Source tags the producer, e.g. "Browser Geolocation".
	Source string
	// Err is set for the error variant.
	Err *LocationError
}

// Failed reports whether the sample is the error variant.
func (s *LocationSample) Failed() bool {
	return s != nil && s.Err != nil
}

// AccuracyText renders the accuracy for display, "Unknown" when absent.
func (s *LocationSample) AccuracyText() string {
	if s == nil || s.AccuracyM <= 0 {
		return "Unknown"
	}

	return strconv.FormatFloat(s.AccuracyM, 'f', -1, 64)
}

// Clone returns a deep copy of the sample.
func (s *LocationSample) Clone() *LocationSample {
	if s == nil {
		return nil
	}

	cloned := *s
	if s.Err != nil {
		err := *s.Err
		cloned.Err = &err
	}

	return &cloned
}

// FormatCoordinate renders a latitude or longitude with the shortest exact
// decimal representation, matching how coordinates appear in map links.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MapsLink builds a Google Maps search URL for the given coordinates.
func MapsLink(latitude, longitude float64) string {
	return "https://www.google.com/maps/search/?api=1&query=" +
		FormatCoordinate(latitude) + "," + FormatCoordinate(longitude)
}
