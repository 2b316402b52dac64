package sos

import "time"

// AlertCycle is the aggregate state for one SOS trigger, owned exclusively
// by the orchestrator from acceptance until a terminal status. All other
// components only ever read it (or a clone of it).
type AlertCycle struct {
	// Key is the correlation key pairing the async location request
	// with the result the browser eventually deposits.
	Key string
	// Trigger is the metadata of the accepted SOS signal.
	Trigger Trigger
	// UserName identifies the user in the alert header.
	UserName string
	// UserEmail identifies the user in the alert header.
	UserEmail string
	// StartedAt is when the trigger was accepted.
	StartedAt time.Time
	// CompletedAt is when the cycle reached its terminal status.
	CompletedAt time.Time

	// Status is the current state-machine position.
	Status CycleStatus
	// StatusDetail carries the underlying cause for failed/skipped statuses.
	StatusDetail string
	// LocationSource annotates how far the location pipeline got, e.g.
	// "Combined (Browser+Nominatim)" or "Browser Geolocation (Lookup Error)".
	LocationSource string

	// Location is the sample delivered for Key; nil while awaiting it.
	Location *LocationSample
	// Address is the structured address, nil if lookup failed or was skipped.
	Address *AddressDetails
	// AddressErr is the classified lookup failure, if any.
	AddressErr *GeocodeError
	// AddressInfo is an informational note when lookup was skipped entirely.
	AddressInfo string

	// Hospitals is the nearest-hospital search outcome.
	Hospitals *ServiceResult
	// Police is the nearest-police-station search outcome.
	Police *ServiceResult

	// Recipients are the filtered contact addresses the alert went to.
	Recipients []string
	// Body is the composed alert text.
	Body string
}

// Terminal reports whether the cycle reached a final status.
func (c *AlertCycle) Terminal() bool {
	return c != nil && c.Status.Terminal()
}

// ClearResults drops everything derived from a previous location result.
// Called when a new trigger is accepted and when location retrieval fails.
func (c *AlertCycle) ClearResults() {
	c.Location = nil
	c.Address = nil
	c.AddressErr = nil
	c.AddressInfo = ""
	c.Hospitals = nil
	c.Police = nil
	c.Recipients = nil
	c.Body = ""
}

// Clone returns a deep copy so snapshots never leak internal references.
func (c *AlertCycle) Clone() *AlertCycle {
	if c == nil {
		return nil
	}

	cloned := *c
	cloned.Location = c.Location.Clone()
	cloned.Address = c.Address.Clone()
	cloned.Hospitals = c.Hospitals.Clone()
	cloned.Police = c.Police.Clone()

	if c.AddressErr != nil {
		addressErr := *c.AddressErr
		cloned.AddressErr = &addressErr
	}

	if c.Recipients != nil {
		cloned.Recipients = make([]string, len(c.Recipients))
		copy(cloned.Recipients, c.Recipients)
	}

	return &cloned
}
