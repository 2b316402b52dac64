package sos

// FieldUnknown is the explicit marker for address components the geocoding
// provider did not return. Keeping a marker instead of omitting fields means
// formatting code never has to special-case missing keys.
const FieldUnknown = "N/A"

// GeocodeErrorKind classifies reverse-geocoding failures.
type GeocodeErrorKind string

const (
	// GeocodePreparation means the input was rejected before any network call.
	GeocodePreparation GeocodeErrorKind = "preparation"
	// GeocodeTimeoutOrUnavailable means the provider timed out or was unreachable.
	GeocodeTimeoutOrUnavailable GeocodeErrorKind = "timeout_or_unavailable"
	// GeocodeNoAddressFound means the call succeeded but matched no address.
	GeocodeNoAddressFound GeocodeErrorKind = "no_address_found"
	// GeocodeProcessing means the provider answered with an unexpected shape.
	GeocodeProcessing GeocodeErrorKind = "processing_error"
)

// GeocodeError is a classified reverse-geocoding failure.
type GeocodeError struct {
	// Kind is the failure classification.
	Kind GeocodeErrorKind
	// Message is the human-readable cause.
	Message string
	// Source tags the failing stage, e.g. "Nominatim API Error".
	Source string
}

// Error implements the error interface.
func (e *GeocodeError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return string(e.Kind)
}

// AddressDetails is a structured address derived from a location sample.
// Every component defaults to FieldUnknown rather than the empty string.
type AddressDetails struct {
	// FullAddress is the single-line display address from the provider.
	FullAddress string
	// HouseNumber is the house or building number.
	HouseNumber string
	// Street is the street or road name.
	Street string
	// Neighbourhood is the immediate neighbourhood.
	Neighbourhood string
	// Suburb is the suburb or borough.
	Suburb string
	// City is the locality (city, town or village).
	City string
	// District is the district or county.
	District string
	// State is the state or province.
	State string
	// PostalCode is the postal or ZIP code.
	PostalCode string
	// Country is the country name.
	Country string
	// Source tags the provider that produced the address.
	Source string
}

// Clone returns a copy of the address details.
func (a *AddressDetails) Clone() *AddressDetails {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// Known reports whether the component carries provider data
// (i.e. is neither empty nor the FieldUnknown marker).
func Known(component string) bool {
	return component != "" && component != FieldUnknown
}
