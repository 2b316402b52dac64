package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/dhivyapriya/sos-guardian/internal/api/http"
	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
	"github.com/dhivyapriya/sos-guardian/internal/repository/contacts"
	"github.com/dhivyapriya/sos-guardian/internal/service/orchestrator"
)

type countingDispatcher struct {
	calls int
}

func (d *countingDispatcher) Available() bool { return true }

func (d *countingDispatcher) Dispatch(_ context.Context, _ []string, _, _ string) error {
	d.calls++

	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *countingDispatcher) {
	t.Helper()

	dispatcher := &countingDispatcher{}
	repo := contacts.NewStaticRepository([]sos.Contact{{Name: "Amma", Email: "amma@example.com"}})
	o := orchestrator.New(orchestrator.Options{
		UserName:   "Priya",
		UserEmail:  "priya@example.com",
		Contacts:   repo,
		Dispatcher: dispatcher,
	})

	server := httptest.NewServer(api.NewRouter(api.RouterConfig{Handler: api.NewHandler(o, repo)}))
	t.Cleanup(server.Close)

	return server, dispatcher
}

// TestRunWithCoordinates drives a full cycle through the real router.
func TestRunWithCoordinates(t *testing.T) {
	t.Parallel()

	server, dispatcher := newTestServer(t)

	err := Run(context.Background(), &Options{
		ServerURL:    server.URL,
		Latitude:     12.97,
		Longitude:    77.59,
		HasLocation:  true,
		PollInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	require.Equal(t, 1, dispatcher.calls)
}

// TestRunWithoutLocation deposits a location failure and still terminates.
func TestRunWithoutLocation(t *testing.T) {
	t.Parallel()

	server, dispatcher := newTestServer(t)

	err := Run(context.Background(), &Options{
		ServerURL:    server.URL,
		PollInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	require.Zero(t, dispatcher.calls)
}

func TestRunRequiresServerURL(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{})
	require.ErrorIs(t, err, ErrServerURLRequired)
}
