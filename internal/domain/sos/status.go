package sos

// CycleStatus is the state of an alert cycle in the SOS state machine.
type CycleStatus string

const (
	// StatusIdle means no cycle is in flight.
	StatusIdle CycleStatus = "idle"
	// StatusAwaitingLocation means the async location request is outstanding.
	StatusAwaitingLocation CycleStatus = "awaiting_location"
	// StatusGeocoding means the reverse-geocode lookup is running.
	StatusGeocoding CycleStatus = "geocoding"
	// StatusSearchingServices means the nearest-service searches are running.
	StatusSearchingServices CycleStatus = "searching_services"
	// StatusComposing means the alert body is being rendered.
	StatusComposing CycleStatus = "composing"
	// StatusDispatching means the email send is in progress.
	StatusDispatching CycleStatus = "dispatching"

	// StatusSent is the successful terminal state.
	StatusSent CycleStatus = "sent"
	// StatusSkippedNoContacts is terminal: location succeeded but no contact
	// had a usable email address, so no send was attempted.
	StatusSkippedNoContacts CycleStatus = "skipped_no_contacts"
	// StatusSkippedNoTransport is terminal: the notification transport is not
	// configured, so no send was attempted.
	StatusSkippedNoTransport CycleStatus = "skipped_transport_unavailable"
	// StatusFailedLocation is terminal: the location request errored and no
	// downstream step was attempted.
	StatusFailedLocation CycleStatus = "failed_location"
	// StatusFailedDispatch is terminal: the email send failed.
	StatusFailedDispatch CycleStatus = "failed_dispatch"
)

// Terminal reports whether no further automatic transition occurs.
func (s CycleStatus) Terminal() bool {
	switch s {
	case StatusSent, StatusSkippedNoContacts, StatusSkippedNoTransport,
		StatusFailedLocation, StatusFailedDispatch:
		return true
	default:
		return false
	}
}

// Message returns the single unambiguous user-visible line for the status.
func (s CycleStatus) Message() string {
	switch s {
	case StatusIdle:
		return "Ready."
	case StatusAwaitingLocation:
		return "Initiating SOS sequence: getting location..."
	case StatusGeocoding:
		return "Fetching address details..."
	case StatusSearchingServices:
		return "Finding nearest emergency services..."
	case StatusComposing:
		return "Preparing alert message..."
	case StatusDispatching:
		return "Sending email alert..."
	case StatusSent:
		return "SOS alert email sent to your trusted contacts."
	case StatusSkippedNoContacts:
		return "No valid email contacts found for sending."
	case StatusSkippedNoTransport:
		return "Email alerts are not configured. No email was sent."
	case StatusFailedLocation:
		return "Could not retrieve your location."
	case StatusFailedDispatch:
		return "Failed to send the SOS email alert."
	default:
		return string(s)
	}
}
