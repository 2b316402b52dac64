package contacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
)

func TestFileRepositoryMissingFile(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "contacts.yaml"))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestFileRepositoryAddAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	repo := NewFileRepository(path)

	require.NoError(t, repo.Add(ctx, sos.Contact{
		Name:  "Amma",
		Phone: "+91 98765 43210",
		Email: "amma@example.com",
	}))
	require.NoError(t, repo.Add(ctx, sos.Contact{Name: "Neighbour", Phone: "+91 90000 00000"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Amma", list[0].Name)
	require.Equal(t, "amma@example.com", list[0].Email)
	require.Equal(t, "Neighbour", list[1].Name)

	// A fresh repository sees the persisted list.
	reopened, err := NewFileRepository(path).List(ctx)
	require.NoError(t, err)
	require.Equal(t, list, reopened)
}

func TestFileRepositoryRejectsEmptyName(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "contacts.yaml"))

	err := repo.Add(context.Background(), sos.Contact{Email: "nameless@example.com"})
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestFileRepositoryRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contacts: [unterminated"), 0o600))

	_, err := NewFileRepository(path).List(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode contacts file")
}

func TestStaticRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStaticRepository([]sos.Contact{{Name: "Amma", Email: "amma@example.com"}})

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Mutating the returned slice must not leak into the repository.
	list[0].Email = "changed@example.com"

	again, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "amma@example.com", again[0].Email)

	require.Error(t, repo.Add(ctx, sos.Contact{Name: "New"}))
}
