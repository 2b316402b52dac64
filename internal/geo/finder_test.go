package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
)

// testTable builds a hospital table around central Bengaluru.
func testTable(points ...sos.ServicePoint) *sos.ServiceTable {
	return &sos.ServiceTable{Category: sos.CategoryHospital, Points: points}
}

// TestHaversineKnownDistance sanity-checks the formula against a surveyed
// pair: central Bengaluru to Kempegowda airport is roughly 30 km.
func TestHaversineKnownDistance(t *testing.T) {
	t.Parallel()

	d := Haversine(12.9716, 77.5946, 13.1986, 77.7066)
	require.InDelta(t, 28.0, d, 2.0)

	// Distance to self is zero.
	require.Zero(t, Haversine(12.9716, 77.5946, 12.9716, 77.5946))
}

// TestFindNearestOrderingAndCap verifies ascending sort, the radius filter
// and the result cap.
func TestFindNearestOrderingAndCap(t *testing.T) {
	t.Parallel()

	table := testTable(
		sos.ServicePoint{Name: "Far", Latitude: 13.20, Longitude: 77.59},
		sos.ServicePoint{Name: "Near", Latitude: 12.98, Longitude: 77.59},
		sos.ServicePoint{Name: "Mid", Latitude: 13.02, Longitude: 77.59},
	)

	result := FindNearest(Query{Latitude: 12.97, Longitude: 77.59, RadiusKm: 100, MaxResults: 2}, table)
	require.Equal(t, sos.SearchOK, result.Status)
	require.Len(t, result.Matches, 2)
	require.Equal(t, "Near", result.Matches[0].Name)
	require.Equal(t, "Mid", result.Matches[1].Name)
	require.LessOrEqual(t, result.Matches[0].DistanceKm, result.Matches[1].DistanceKm)

	for _, m := range result.Matches {
		require.LessOrEqual(t, m.DistanceKm, 100.0)
	}
}

// TestFindNearestInclusiveBoundary: a point at exactly the radius is included.
func TestFindNearestInclusiveBoundary(t *testing.T) {
	t.Parallel()

	point := sos.ServicePoint{Name: "Edge", Latitude: 13.00, Longitude: 77.59}
	exact := Haversine(12.97, 77.59, point.Latitude, point.Longitude)

	result := FindNearest(Query{Latitude: 12.97, Longitude: 77.59, RadiusKm: exact}, testTable(point))
	require.Equal(t, sos.SearchOK, result.Status)
	require.Len(t, result.Matches, 1)
	require.Equal(t, "Edge", result.Matches[0].Name)
}

// TestFindNearestTieKeepsDatasetOrder: equal distances preserve input order.
func TestFindNearestTieKeepsDatasetOrder(t *testing.T) {
	t.Parallel()

	// Two points symmetric east/west of the query share the same distance.
	table := testTable(
		sos.ServicePoint{Name: "West", Latitude: 12.97, Longitude: 77.58},
		sos.ServicePoint{Name: "East", Latitude: 12.97, Longitude: 77.60},
	)

	result := FindNearest(Query{Latitude: 12.97, Longitude: 77.59}, table)
	require.Equal(t, sos.SearchOK, result.Status)
	require.Len(t, result.Matches, 2)
	require.Equal(t, "West", result.Matches[0].Name)
	require.Equal(t, "East", result.Matches[1].Name)
}

// TestFindNearestEmptyOutcomes distinguishes the three empty results.
func TestFindNearestEmptyOutcomes(t *testing.T) {
	t.Parallel()

	query := Query{Latitude: 12.97, Longitude: 77.59}

	// Absent table: the message still names the service kind from the query.
	policeQuery := query
	policeQuery.Category = sos.CategoryPolice
	result := FindNearest(policeQuery, nil)
	require.Equal(t, sos.SearchUnavailable, result.Status)
	require.Equal(t, sos.CategoryPolice, result.Category)
	require.Equal(t, "No Police Station data available to search.", result.Message)
	require.Empty(t, result.Matches)

	// Table where no row passes the coordinate-validity filter: this is a
	// distinct status, not an empty OK list.
	invalid := testTable(
		sos.ServicePoint{Name: "NaN", Latitude: math.NaN(), Longitude: 77.59},
		sos.ServicePoint{Name: "OutOfRange", Latitude: 123.0, Longitude: 500.0},
	)
	result = FindNearest(query, invalid)
	require.Equal(t, sos.SearchNoValidData, result.Status)

	// Valid rows, none inside the radius.
	farOnly := testTable(sos.ServicePoint{Name: "Far", Latitude: 28.61, Longitude: 77.21})
	result = FindNearest(query, farOnly)
	require.Equal(t, sos.SearchNoneWithinRadius, result.Status)
	require.Contains(t, result.Message, "within 10 km")
}

// TestFindNearestDefaults applies the 10 km / 5 results defaults.
func TestFindNearestDefaults(t *testing.T) {
	t.Parallel()

	points := make([]sos.ServicePoint, 0, 8)
	for i := 0; i < 8; i++ {
		points = append(points, sos.ServicePoint{
			Name:      "H",
			Latitude:  12.97 + float64(i)*0.001,
			Longitude: 77.59,
		})
	}

	result := FindNearest(Query{Latitude: 12.97, Longitude: 77.59}, testTable(points...))
	require.Equal(t, sos.SearchOK, result.Status)
	require.Len(t, result.Matches, DefaultMaxResults)
}
