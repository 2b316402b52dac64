package sos

// ServiceCategory is one of the two emergency-service dataset kinds.
type ServiceCategory string

const (
	// CategoryHospital is the hospital dataset.
	CategoryHospital ServiceCategory = "hospital"
	// CategoryPolice is the police-station dataset.
	CategoryPolice ServiceCategory = "police_station"
)

// DisplayName returns the human-readable category name used in alert text.
func (c ServiceCategory) DisplayName() string {
	switch c {
	case CategoryHospital:
		return "Hospital"
	case CategoryPolice:
		return "Police Station"
	default:
		return string(c)
	}
}

// ServicePoint is a single emergency-service location loaded from a dataset.
type ServicePoint struct {
	// Category is the dataset the point belongs to.
	Category ServiceCategory
	// Name identifies the service for display.
	Name string
	// Latitude in decimal degrees.
	Latitude float64
	// Longitude in decimal degrees.
	Longitude float64
	// Address is an optional street address; empty when the dataset has none.
	Address string
}

// ServiceTable is an immutable, queryable set of points for one category.
// A nil table means the category's dataset is absent entirely.
type ServiceTable struct {
	// Category is the dataset kind of every point in the table.
	Category ServiceCategory
	// Points are the loaded rows, in dataset order.
	Points []ServicePoint
}

// ServiceMatch is a point paired with its distance from the query position.
type ServiceMatch struct {
	ServicePoint

	// DistanceKm is the great-circle distance from the query point.
	DistanceKm float64
}

// SearchStatus classifies the outcome of a nearest-service search.
type SearchStatus string

const (
	// SearchOK means Matches holds at least one result.
	SearchOK SearchStatus = "ok"
	// SearchUnavailable means the category's table is absent.
	SearchUnavailable SearchStatus = "unavailable"
	// SearchNoValidData means no row passed the coordinate-validity filter.
	SearchNoValidData SearchStatus = "no_valid_data"
	// SearchNoneWithinRadius means valid rows exist but none inside the radius.
	SearchNoneWithinRadius SearchStatus = "none_within_radius"
)

// ServiceResult is the outcome of one nearest-service search.
// Matches is populated only when Status is SearchOK; otherwise Message
// carries the explanatory status line for display and alert text.
type ServiceResult struct {
	// Category the search ran against.
	Category ServiceCategory
	// Status is the search outcome classification.
	Status SearchStatus
	// Matches are the nearby points, ascending by distance.
	Matches []ServiceMatch
	// Message is the textual status for the non-OK outcomes.
	Message string
}

// Clone returns a deep copy of the result.
func (r *ServiceResult) Clone() *ServiceResult {
	if r == nil {
		return nil
	}

	cloned := *r
	if r.Matches != nil {
		cloned.Matches = make([]ServiceMatch, len(r.Matches))
		copy(cloned.Matches, r.Matches)
	}

	return &cloned
}
