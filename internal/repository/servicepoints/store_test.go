package servicepoints

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
)

// TestLoadHospitalDataset drops rows with bad coordinates or empty names
// and tolerates decimal commas.
func TestLoadHospitalDataset(t *testing.T) {
	t.Parallel()

	store := Load(context.Background(), HospitalSpec(filepath.Join("testdata", "hospitals.csv")))

	table := store.Table(sos.CategoryHospital)
	require.NotNil(t, table)
	require.Empty(t, store.Warnings())
	require.Len(t, table.Points, 2)

	require.Equal(t, "City Hospital", table.Points[0].Name)
	require.InDelta(t, 12.98, table.Points[0].Latitude, 1e-9)
	require.Equal(t, "MG Road, Bengaluru", table.Points[0].Address)

	// The decimal-comma coordinate coerced successfully.
	require.Equal(t, "Lakeside Clinic", table.Points[1].Name)
	require.InDelta(t, 13.01, table.Points[1].Latitude, 1e-9)
}

// TestLoadPoliceDataset reads the second column-name convention.
func TestLoadPoliceDataset(t *testing.T) {
	t.Parallel()

	store := Load(context.Background(), PoliceSpec(filepath.Join("testdata", "police.csv")))

	table := store.Table(sos.CategoryPolice)
	require.NotNil(t, table)
	require.Len(t, table.Points, 2)
	require.Equal(t, "Central Station", table.Points[0].Name)
	require.Equal(t, "Cubbon Park", table.Points[0].Address)
	require.Empty(t, table.Points[1].Address)
}

// TestLoadWarningKinds pins the distinct non-fatal warning classifications.
func TestLoadWarningKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		path string
		kind WarningKind
	}{
		{"missing file", filepath.Join("testdata", "does_not_exist.csv"), WarningMissingFile},
		{"header only", filepath.Join("testdata", "header_only.csv"), WarningEmptyFile},
		{"wrong columns", filepath.Join("testdata", "wrong_columns.csv"), WarningMissingColumns},
		{"all rows invalid", filepath.Join("testdata", "all_invalid.csv"), WarningNoValidRows},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := Load(context.Background(), PoliceSpec(tc.path))

			// The category's table is absent, never a half-loaded one.
			require.Nil(t, store.Table(sos.CategoryPolice))
			require.Len(t, store.Warnings(), 1)
			require.Equal(t, tc.kind, store.Warnings()[0].Kind)
			require.Equal(t, sos.CategoryPolice, store.Warnings()[0].Category)
		})
	}
}

// TestLoadBothDatasets verifies one category failing never affects the other.
func TestLoadBothDatasets(t *testing.T) {
	t.Parallel()

	store := Load(context.Background(),
		HospitalSpec(filepath.Join("testdata", "hospitals.csv")),
		PoliceSpec(filepath.Join("testdata", "does_not_exist.csv")),
	)

	require.NotNil(t, store.Table(sos.CategoryHospital))
	require.Nil(t, store.Table(sos.CategoryPolice))
	require.Len(t, store.Warnings(), 1)
}
