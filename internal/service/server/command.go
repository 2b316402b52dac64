// Package server boots the SOS HTTP server: it loads configuration, wires
// the datasets, geocoder, mail transport and orchestrator together, and
// serves the API until the context is canceled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	api "github.com/dhivyapriya/sos-guardian/internal/api/http"
	"github.com/dhivyapriya/sos-guardian/internal/config"
	"github.com/dhivyapriya/sos-guardian/internal/geocode"
	"github.com/dhivyapriya/sos-guardian/internal/logger"
	"github.com/dhivyapriya/sos-guardian/internal/notify"
	"github.com/dhivyapriya/sos-guardian/internal/observability/metrics"
	"github.com/dhivyapriya/sos-guardian/internal/repository/contacts"
	"github.com/dhivyapriya/sos-guardian/internal/repository/servicepoints"
	"github.com/dhivyapriya/sos-guardian/internal/service/orchestrator"
)

// Options controls the sos-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override.
	ListenAddress string
}

// shutdownTimeout bounds the graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Run starts the HTTP server and blocks until the context is canceled or
// the server stops.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sos-server")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	if cfg.LogFile != "" {
		fileLogger, err := logger.NewWithFile(nil, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}

		logger.SetLogger(fileLogger)
	}

	listenAddress := cfg.HTTPAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	// Dataset problems degrade the alert, they never stop the server.
	store := servicepoints.Load(ctx,
		servicepoints.HospitalSpec(cfg.Datasets.Hospitals),
		servicepoints.PoliceSpec(cfg.Datasets.Police))

	registry := prometheus.NewRegistry()
	alertMetrics := metrics.NewAlertMetrics(registry)

	o, contactRepo := buildCore(ctx, cfg, store, alertMetrics)

	router := api.NewRouter(api.RouterConfig{
		Handler:        api.NewHandler(o, contactRepo),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.InfoKV(ctx, "SOS server listening", "listen_address", listenAddress)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "HTTP server shutdown failed", "error", err)
		}

		close(done)
	}()

	if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}

// buildCore assembles the orchestrator and returns it together with the
// contact repository it was wired with. The handler must reuse that same
// repository so API writes and cycle-start reads serialize on one lock.
func buildCore(
	ctx context.Context,
	cfg *config.Config,
	store *servicepoints.Store,
	alertMetrics *metrics.AlertMetrics,
) (*orchestrator.Orchestrator, contacts.Repository) {
	contactRepo := buildContacts(cfg)

	o := orchestrator.New(orchestrator.Options{
		UserName:   cfg.User.Name,
		UserEmail:  cfg.User.Email,
		Geocoder:   buildGeocoder(ctx, cfg),
		Tables:     store,
		Contacts:   contactRepo,
		Dispatcher: buildDispatcher(ctx, cfg),
		Metrics:    alertMetrics,
		RadiusKm:   cfg.Search.RadiusKm,
		MaxResults: cfg.Search.MaxResults,
	})

	return o, contactRepo
}

// buildGeocoder returns the Nominatim client, or the no-op lookup when no
// endpoint is configured.
func buildGeocoder(ctx context.Context, cfg *config.Config) geocode.Geocoder {
	if cfg.Geocoder.BaseURL == "" {
		logger.Warn(ctx, "Reverse geocoding is not configured, alerts will carry raw coordinates only")

		return geocode.Noop{}
	}

	return geocode.NewClient(geocode.Config{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Timeout:   cfg.Geocoder.Timeout,
	})
}

// buildContacts prefers the configuration-embedded list over the YAML file.
func buildContacts(cfg *config.Config) contacts.Repository {
	if len(cfg.Contacts) > 0 {
		return contacts.NewStaticRepository(cfg.Contacts)
	}

	return contacts.NewFileRepository(cfg.ContactsFile)
}

// buildDispatcher wires the SMTP transport; an incomplete SMTP configuration
// leaves the dispatcher without a transport so cycles finish as skipped
// instead of failing.
func buildDispatcher(ctx context.Context, cfg *config.Config) *notify.Dispatcher {
	transport, err := notify.NewSMTPTransport(notify.SMTPConfig{
		Host:           cfg.SMTP.Host,
		Port:           cfg.SMTP.Port,
		SenderAddress:  cfg.SMTP.SenderAddress,
		SenderPassword: cfg.SMTP.SenderPassword,
		Timeout:        cfg.SMTP.Timeout,
	})
	if err != nil {
		logger.WarnKV(ctx, "Email alerts are not configured", "reason", err)

		return notify.NewDispatcher(nil)
	}

	return notify.NewDispatcher(transport)
}
