package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
	"github.com/dhivyapriya/sos-guardian/internal/geo"
	"github.com/dhivyapriya/sos-guardian/internal/geocode"
	"github.com/dhivyapriya/sos-guardian/internal/logger"
	"github.com/dhivyapriya/sos-guardian/internal/notify"
	"github.com/dhivyapriya/sos-guardian/internal/observability/metrics"
	"github.com/dhivyapriya/sos-guardian/internal/repository/contacts"
)

var (
	// ErrBusy is returned when a trigger arrives while a cycle is in flight.
	ErrBusy = errors.New("an SOS cycle is already in progress")
	// ErrUnknownKey is returned for a location delivered with a key that is
	// not the one currently outstanding (stale, consumed, or fabricated).
	ErrUnknownKey = errors.New("no pending location request for this key")
	// ErrInvalidTrigger is returned for an unrecognized trigger source.
	ErrInvalidTrigger = errors.New("invalid trigger source")
)

// TableProvider hands out the loaded dataset for a service category.
// A nil table means the dataset is absent.
type TableProvider interface {
	Table(category sos.ServiceCategory) *sos.ServiceTable
}

// Dispatcher performs the single delivery attempt for a composed alert.
type Dispatcher interface {
	Available() bool
	Dispatch(ctx context.Context, recipients []string, subject, body string) error
}

// Options wires the orchestrator's collaborators and settings.
type Options struct {
	// UserName identifies the protected person in alerts.
	UserName string
	// UserEmail identifies the protected person in alerts.
	UserEmail string
	// Geocoder resolves coordinates to an address; nil disables lookups.
	Geocoder geocode.Geocoder
	// Tables provides the emergency service datasets.
	Tables TableProvider
	// Contacts is the trusted contact list.
	Contacts contacts.Repository
	// Dispatcher delivers the composed alert; nil means no transport.
	Dispatcher Dispatcher
	// Metrics instruments the pipeline; nil disables instrumentation.
	Metrics *metrics.AlertMetrics
	// RadiusKm bounds the nearest-service search.
	RadiusKm float64
	// MaxResults caps matches per service category.
	MaxResults int
}

// Orchestrator owns the single in-flight alert cycle.
type Orchestrator struct {
	opts Options

	// mu protects busy, pendingKey and cycle.
	mu sync.Mutex
	// busy is set from trigger acceptance until a terminal status.
	busy bool
	// pendingKey is the outstanding correlation key, empty once consumed.
	pendingKey string
	// cycle is the current (or last finished) alert cycle.
	cycle *sos.AlertCycle

	// now and newKey are swappable for tests.
	now    func() time.Time
	newKey func() string
}

// New creates an orchestrator in the idle state.
func New(opts Options) *Orchestrator {
	if opts.Geocoder == nil {
		opts.Geocoder = geocode.Noop{}
	}

	if opts.RadiusKm <= 0 {
		opts.RadiusKm = geo.DefaultRadiusKm
	}

	if opts.MaxResults <= 0 {
		opts.MaxResults = geo.DefaultMaxResults
	}

	return &Orchestrator{
		opts:   opts,
		now:    time.Now,
		newKey: uuid.NewString,
	}
}

// Trigger starts a new alert cycle and returns its correlation key. A
// trigger while another cycle is in flight is rejected with ErrBusy and
// leaves the running cycle untouched.
func (o *Orchestrator) Trigger(ctx context.Context, trigger sos.Trigger) (string, error) {
	if !trigger.Source.Valid() {
		return "", ErrInvalidTrigger
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy {
		o.opts.Metrics.ObserveTrigger(string(trigger.Source), false)
		logger.WarnKV(ctx, "SOS trigger rejected: cycle already in progress",
			"source", trigger.Source)

		return "", ErrBusy
	}

	key := o.newKey()

	o.busy = true
	o.pendingKey = key
	o.cycle = &sos.AlertCycle{
		Key:       key,
		Trigger:   trigger,
		UserName:  o.opts.UserName,
		UserEmail: o.opts.UserEmail,
		StartedAt: o.now(),
		Status:    sos.StatusAwaitingLocation,
	}
	o.cycle.ClearResults()

	o.opts.Metrics.ObserveTrigger(string(trigger.Source), true)
	logger.InfoKV(ctx, "SOS cycle started", "key", key, "trigger", trigger.Describe())

	return key, nil
}

// DeliverLocation accepts the asynchronous location result for the given
// correlation key and runs the cycle to a terminal status. The key is
// consumed on first use: a second delivery, a stale key, or a delivery with
// no cycle in flight all return ErrUnknownKey without side effects.
func (o *Orchestrator) DeliverLocation(ctx context.Context, key string, sample sos.LocationSample) (*sos.AlertCycle, error) {
	o.mu.Lock()

	if !o.busy || key == "" || key != o.pendingKey {
		o.mu.Unlock()

		return nil, ErrUnknownKey
	}

	// Consume before doing any work so a concurrent duplicate loses.
	o.pendingKey = ""

	if sample.Source == "" {
		sample.Source = "Browser Geolocation"
	}

	o.cycle.Location = sample.Clone()
	o.cycle.LocationSource = sample.Source
	cycle := o.cycle
	o.mu.Unlock()

	if sample.Failed() {
		logger.WarnKV(ctx, "Location retrieval failed",
			"kind", sample.Err.Kind, "message", sample.Err.Message)

		return o.finish(ctx, sos.StatusFailedLocation, sample.Err.Message), nil
	}

	o.setStatus(sos.StatusGeocoding)
	o.runLookups(ctx, cycle, sample)

	o.setStatus(sos.StatusComposing)
	o.mu.Lock()
	o.cycle.Body = notify.Compose(o.cycle)
	o.mu.Unlock()

	return o.dispatch(ctx), nil
}

// runLookups resolves the address and both nearest-service searches
// concurrently, then records the outcomes on the cycle.
func (o *Orchestrator) runLookups(ctx context.Context, cycle *sos.AlertCycle, sample sos.LocationSample) {
	var (
		wg        sync.WaitGroup
		address   *sos.AddressDetails
		addrErr   error
		hospitals *sos.ServiceResult
		police    *sos.ServiceResult
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		address, addrErr = o.opts.Geocoder.ReverseGeocode(ctx, sample.Latitude, sample.Longitude)
	}()

	query := geo.Query{
		Latitude:   sample.Latitude,
		Longitude:  sample.Longitude,
		RadiusKm:   o.opts.RadiusKm,
		MaxResults: o.opts.MaxResults,
	}

	wg.Add(1)

	go func() {
		defer wg.Done()

		hospitalQuery, policeQuery := query, query
		hospitalQuery.Category = sos.CategoryHospital
		policeQuery.Category = sos.CategoryPolice

		hospitals = geo.FindNearest(hospitalQuery, o.table(sos.CategoryHospital))
		police = geo.FindNearest(policeQuery, o.table(sos.CategoryPolice))
	}()

	o.setStatus(sos.StatusSearchingServices)
	wg.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()

	cycle.Hospitals = hospitals
	cycle.Police = police

	switch {
	case addrErr == nil:
		cycle.Address = address
		cycle.LocationSource = "Combined (Browser+Nominatim)"
	case errors.Is(addrErr, geocode.ErrUnconfigured):
		cycle.AddressInfo = "Address lookup is not configured."
	default:
		var geocodeErr *sos.GeocodeError
		if errors.As(addrErr, &geocodeErr) {
			cycle.AddressErr = geocodeErr
			o.opts.Metrics.ObserveGeocodeFailure(string(geocodeErr.Kind))
		} else {
			cycle.AddressErr = &sos.GeocodeError{
				Kind:    sos.GeocodeProcessing,
				Message: addrErr.Error(),
			}
			o.opts.Metrics.ObserveGeocodeFailure(string(sos.GeocodeProcessing))
		}

		cycle.LocationSource = "Browser Geolocation (Lookup Error)"
		logger.WarnKV(ctx, "Reverse geocoding failed", "error", addrErr)
	}
}

// dispatch resolves recipients and performs the single delivery attempt.
func (o *Orchestrator) dispatch(ctx context.Context) *sos.AlertCycle {
	recipients := o.resolveRecipients(ctx)

	o.mu.Lock()
	o.cycle.Recipients = recipients
	subject := notify.Subject(o.cycle)
	body := o.cycle.Body
	o.mu.Unlock()

	if o.opts.Dispatcher == nil || !o.opts.Dispatcher.Available() {
		logger.Warn(ctx, "Notification transport unavailable, skipping send")

		return o.finish(ctx, sos.StatusSkippedNoTransport, "")
	}

	if len(recipients) == 0 {
		logger.Warn(ctx, "No valid email contacts, skipping send")

		return o.finish(ctx, sos.StatusSkippedNoContacts, "")
	}

	o.setStatus(sos.StatusDispatching)

	if err := o.opts.Dispatcher.Dispatch(ctx, recipients, subject, body); err != nil {
		logger.ErrorKV(ctx, "SOS alert dispatch failed", "error", err)

		return o.finish(ctx, sos.StatusFailedDispatch, err.Error())
	}

	logger.InfoKV(ctx, "SOS alert dispatched", "recipients", len(recipients))

	return o.finish(ctx, sos.StatusSent, "")
}

// resolveRecipients lists the trusted contacts and keeps the usable emails.
func (o *Orchestrator) resolveRecipients(ctx context.Context) []string {
	if o.opts.Contacts == nil {
		return nil
	}

	list, err := o.opts.Contacts.List(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to load trusted contacts", "error", err)

		return nil
	}

	return sos.ValidEmails(list)
}

// finish records the terminal status and clears the busy flag. This is the
// only place the busy flag is released.
func (o *Orchestrator) finish(ctx context.Context, status sos.CycleStatus, detail string) *sos.AlertCycle {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.cycle.Status = status
	o.cycle.StatusDetail = detail
	o.cycle.CompletedAt = o.now()
	o.busy = false
	o.pendingKey = ""

	o.opts.Metrics.ObserveCycle(string(status),
		o.cycle.CompletedAt.Sub(o.cycle.StartedAt).Seconds())
	logger.InfoKV(ctx, "SOS cycle finished", "status", status, "detail", detail)

	return o.cycle.Clone()
}

// setStatus advances a non-terminal state-machine position.
func (o *Orchestrator) setStatus(status sos.CycleStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.cycle.Status = status
}

// table is a nil-safe dataset accessor.
func (o *Orchestrator) table(category sos.ServiceCategory) *sos.ServiceTable {
	if o.opts.Tables == nil {
		return nil
	}

	return o.opts.Tables.Table(category)
}

// Snapshot returns whether a cycle is in flight and a deep copy of the
// current (or last finished) cycle. The copy is safe to serve concurrently.
func (o *Orchestrator) Snapshot() (bool, *sos.AlertCycle) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.busy, o.cycle.Clone()
}

// Reset clears a finished cycle from the snapshot and returns to idle. An
// in-flight cycle cannot be reset: the busy flag is released only by the
// cycle reaching a terminal status.
func (o *Orchestrator) Reset(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy {
		logger.Warn(ctx, "Reset rejected: cycle still in progress")

		return ErrBusy
	}

	o.cycle = nil

	return nil
}
