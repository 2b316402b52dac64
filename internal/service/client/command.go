package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
	"github.com/dhivyapriya/sos-guardian/internal/logger"
	"github.com/dhivyapriya/sos-guardian/internal/service/common"
)

// Options controls one SOS trigger pushed through the server's HTTP API.
type Options struct {
	// ServerURL is the base URL of the SOS server, e.g. "http://127.0.0.1:8080".
	ServerURL string
	// Source is the trigger source; defaults to "button".
	Source string
	// Keyword is the detected phrase for voice triggers.
	Keyword string
	// Level is the detected loudness for sound triggers.
	Level float64
	// Latitude and Longitude are the coordinates to deposit. When
	// HasLocation is false a location failure is deposited instead, which
	// still drives the cycle to a terminal status.
	Latitude  float64
	Longitude float64
	// HasLocation reports whether coordinates were provided.
	HasLocation bool
	// PollInterval defines the interval between status checks.
	PollInterval time.Duration
	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

const (
	// DefaultPollInterval defines the fixed interval for status polling.
	DefaultPollInterval = 1 * time.Second
	// DefaultRequestTimeout bounds one API request.
	DefaultRequestTimeout = 10 * time.Second
)

// ErrServerURLRequired indicates a missing server base URL.
var ErrServerURLRequired = errors.New("server URL must be provided")

// cycleStatus mirrors the server's status payload.
type cycleStatus struct {
	Busy    bool   `json:"busy"`
	Key     string `json:"key"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Run triggers an SOS cycle, deposits the location result and polls until
// the cycle reaches a terminal status.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sos-trigger")

	if opts.ServerURL == "" {
		return ErrServerURLRequired
	}

	if opts.Source == "" {
		opts.Source = string(sos.SourceButton)
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}

	// Identify the triggering user and host for the audit trail.
	actor, err := common.DetectActor()
	if err != nil {
		return fmt.Errorf("detect actor: %w", err)
	}

	httpClient := &http.Client{Timeout: opts.Timeout}

	key, err := trigger(ctx, httpClient, opts)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "SOS cycle started", "key", key, "triggered_by", actor.String())

	if err := deliverLocation(ctx, httpClient, opts, key); err != nil {
		return err
	}

	return pollUntilTerminal(ctx, httpClient, opts)
}

// trigger starts the cycle and returns its correlation key.
func trigger(ctx context.Context, httpClient *http.Client, opts *Options) (string, error) {
	payload := map[string]any{
		"source":  opts.Source,
		"keyword": opts.Keyword,
		"level":   opts.Level,
	}

	var response struct {
		Key   string `json:"key"`
		Error string `json:"error"`
	}

	status, err := postJSON(ctx, httpClient, opts.ServerURL+"/api/v1/sos", payload, &response)
	if err != nil {
		return "", fmt.Errorf("trigger SOS: %w", err)
	}

	if status == http.StatusConflict {
		return "", errors.New("an SOS cycle is already in progress")
	}

	if status != http.StatusAccepted {
		return "", fmt.Errorf("trigger SOS: unexpected status %d: %s", status, response.Error)
	}

	return response.Key, nil
}

// deliverLocation deposits either the provided coordinates or an explicit
// unavailability error.
func deliverLocation(ctx context.Context, httpClient *http.Client, opts *Options, key string) error {
	payload := map[string]any{}
	if opts.HasLocation {
		payload["latitude"] = opts.Latitude
		payload["longitude"] = opts.Longitude
	} else {
		payload["error_code"] = 2
		payload["error_message"] = "No location source available on this device"
	}

	var response struct {
		Error string `json:"error"`
	}

	status, err := postJSON(ctx, httpClient, opts.ServerURL+"/api/v1/sos/location/"+key, payload, &response)
	if err != nil {
		return fmt.Errorf("deliver location: %w", err)
	}

	if status != http.StatusOK {
		return fmt.Errorf("deliver location: unexpected status %d: %s", status, response.Error)
	}

	return nil
}

// pollUntilTerminal watches the cycle status until it stops moving.
func pollUntilTerminal(ctx context.Context, httpClient *http.Client, opts *Options) error {
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		current, err := fetchStatus(ctx, httpClient, opts.ServerURL)
		if err != nil {
			return err
		}

		logger.InfoKV(ctx, "Cycle status", "status", current.Status, "message", current.Message)

		if sos.CycleStatus(current.Status).Terminal() {
			if current.Detail != "" {
				logger.InfoKV(ctx, "Cycle finished", "detail", current.Detail)
			}

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// fetchStatus reads the current cycle status.
func fetchStatus(ctx context.Context, httpClient *http.Client, serverURL string) (*cycleStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/api/v1/sos/status", nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch status: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var status cycleStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}

	return &status, nil
}

// postJSON sends a JSON payload and decodes the JSON response, returning the
// HTTP status code.
func postJSON(ctx context.Context, httpClient *http.Client, url string, payload, response any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	return resp.StatusCode, nil
}
