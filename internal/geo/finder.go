// Package geo implements the nearest-emergency-service search over the
// immutable point tables loaded at startup.
package geo

import (
	"fmt"
	"math"
	"sort"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
)

const (
	// DefaultRadiusKm bounds searches when the caller does not override it.
	DefaultRadiusKm = 10.0
	// DefaultMaxResults caps result lists when the caller does not override it.
	DefaultMaxResults = 5
)

// Query is one nearest-service search request.
type Query struct {
	// Category names the service kind being searched, used in outcome
	// messages even when the table for it is absent.
	Category sos.ServiceCategory
	// Latitude of the user position in decimal degrees.
	Latitude float64
	// Longitude of the user position in decimal degrees.
	Longitude float64
	// RadiusKm is the inclusive search radius; <= 0 selects DefaultRadiusKm.
	RadiusKm float64
	// MaxResults caps the returned matches; <= 0 selects DefaultMaxResults.
	MaxResults int
}

// FindNearest returns the points of the table within the query radius,
// ascending by distance and truncated to the result cap. Ties at equal
// distance keep dataset order. The three empty outcomes are distinguished:
// an absent table, a table with no validly-positioned rows, and valid rows
// none of which fall inside the radius.
func FindNearest(q Query, table *sos.ServiceTable) *sos.ServiceResult {
	radius := q.RadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}

	limit := q.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	category := q.Category
	if table != nil && table.Category != "" {
		category = table.Category
	}

	if table == nil || len(table.Points) == 0 {
		return &sos.ServiceResult{
			Category: category,
			Status:   sos.SearchUnavailable,
			Message:  fmt.Sprintf("No %s data available to search.", category.DisplayName()),
		}
	}

	matches := make([]sos.ServiceMatch, 0, len(table.Points))

	validRows := 0

	for _, point := range table.Points {
		if !validCoordinates(point.Latitude, point.Longitude) {
			continue
		}

		validRows++

		distance := Haversine(q.Latitude, q.Longitude, point.Latitude, point.Longitude)
		if distance <= radius {
			matches = append(matches, sos.ServiceMatch{ServicePoint: point, DistanceKm: distance})
		}
	}

	if validRows == 0 {
		return &sos.ServiceResult{
			Category: category,
			Status:   sos.SearchNoValidData,
			Message: fmt.Sprintf("No %s found in the dataset with valid coordinates.",
				category.DisplayName()),
		}
	}

	if len(matches) == 0 {
		return &sos.ServiceResult{
			Category: category,
			Status:   sos.SearchNoneWithinRadius,
			Message: fmt.Sprintf("No %s found within %g km based on available data.",
				category.DisplayName(), radius),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	return &sos.ServiceResult{
		Category: category,
		Status:   sos.SearchOK,
		Matches:  matches,
	}
}

// validCoordinates filters rows whose position cannot feed the distance
// formula. Such rows are excluded from the search, never treated as
// zero-distance hits.
func validCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}

	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
