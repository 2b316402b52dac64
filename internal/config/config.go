package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
	"github.com/dhivyapriya/sos-guardian/internal/geo"
)

// Config holds the settings for the SOS server.
type Config struct {
	// User identifies the protected person; their name and email are
	// embedded in every alert.
	User UserConfig `yaml:"user"`
	// SMTP configures the outbound mail transport.
	SMTP SMTPConfig `yaml:"smtp"`
	// Geocoder configures reverse geocoding of alert coordinates.
	Geocoder GeocoderConfig `yaml:"geocoder"`
	// Datasets points at the emergency service datasets on disk.
	Datasets DatasetConfig `yaml:"datasets"`
	// Search bounds the nearest-service lookup.
	Search SearchConfig `yaml:"search"`
	// HTTPAddress is the listen address of the HTTP API.
	HTTPAddress string `yaml:"http_addr"`
	// ContactsFile is the path to the YAML trusted contact list.
	ContactsFile string `yaml:"contacts_file"`
	// Contacts optionally embeds the contact list directly; it takes
	// precedence over ContactsFile when non-empty.
	Contacts []sos.Contact `yaml:"contacts,omitempty"`
	// LogLevel is the minimum level emitted by the logger.
	LogLevel string `yaml:"log_level"`
	// LogFile is an optional strftime pattern for a time-rotated log file,
	// e.g. "sos-server-%Y-%m-%d.log". Empty logs to stdout only.
	LogFile string `yaml:"log_file,omitempty"`
}

// UserConfig identifies the protected person.
type UserConfig struct {
	// Name shown in alert subjects and bodies.
	Name string `yaml:"name"`
	// Email shown in alert bodies for callback.
	Email string `yaml:"email"`
}

// SMTPConfig configures the outbound mail transport. The password is never
// persisted to YAML; it comes from the environment.
type SMTPConfig struct {
	// Host of the SMTP server.
	Host string `yaml:"host"`
	// Port of the SMTP server; 465 selects implicit TLS, everything else STARTTLS.
	Port int `yaml:"port"`
	// SenderAddress is the login username and From address.
	SenderAddress string `yaml:"sender_address"`
	// SenderPassword is resolved from the environment at load time.
	SenderPassword string `yaml:"-"`
	// Timeout bounds one delivery attempt.
	Timeout time.Duration `yaml:"timeout"`
}

// GeocoderConfig configures the reverse geocoding client.
type GeocoderConfig struct {
	// BaseURL of the Nominatim-compatible endpoint. Empty disables lookups.
	BaseURL string `yaml:"base_url"`
	// UserAgent sent with every request, as the service's usage policy requires.
	UserAgent string `yaml:"user_agent"`
	// Timeout bounds one reverse geocoding request.
	Timeout time.Duration `yaml:"timeout"`
}

// DatasetConfig points at the emergency service datasets.
type DatasetConfig struct {
	// Hospitals is the path to the hospital dataset (CSV or XLSX).
	Hospitals string `yaml:"hospitals"`
	// Police is the path to the police station dataset (CSV or XLSX).
	Police string `yaml:"police"`
}

// SearchConfig bounds the nearest-service lookup.
type SearchConfig struct {
	// RadiusKm is the search radius around the alert location.
	RadiusKm float64 `yaml:"radius_km"`
	// MaxResults caps matches per service category.
	MaxResults int `yaml:"max_results"`
}

const (
	// DefaultConfigFilename is the default filename for server settings.
	DefaultConfigFilename = "sos-guardian-settings.yaml"

	// DefaultContactsFilename is the default filename for the contact list.
	DefaultContactsFilename = "sos-guardian-contacts.yaml"

	// DefaultHTTPAddress is the default HTTP API listen address.
	DefaultHTTPAddress = "127.0.0.1:8080"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// EnvSMTPPassword is the environment variable holding the SMTP password.
	EnvSMTPPassword = "SOS_SMTP_PASSWORD"

	// EnvSMTPSender overrides the configured SMTP sender address.
	EnvSMTPSender = "SOS_SMTP_SENDER"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUserNameRequired is returned when the protected user's name is missing.
	errUserNameRequired = errors.New("user name must be provided")
	// errUserEmailRequired is returned when the protected user's email is missing.
	errUserEmailRequired = errors.New("user email must be provided")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates essential fields. A .env file next to the working
// directory is honored when present.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the settings to the provided path. Secrets are excluded by
// their YAML tags.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields, formats, and fills defaults in place.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.User.Name) == "" {
		return errUserNameRequired
	}

	if strings.TrimSpace(cfg.User.Email) == "" {
		return errUserEmailRequired
	}

	if cfg.HTTPAddress == "" {
		cfg.HTTPAddress = DefaultHTTPAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.HTTPAddress); err != nil {
		return fmt.Errorf("invalid http listen address: %w", err)
	}

	if cfg.ContactsFile == "" {
		cfg.ContactsFile = DefaultContactsFilename
	}

	if cfg.Search.RadiusKm <= 0 {
		cfg.Search.RadiusKm = geo.DefaultRadiusKm
	}

	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = geo.DefaultMaxResults
	}

	if cfg.Geocoder.BaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.Geocoder.BaseURL); err != nil {
			return fmt.Errorf("invalid geocoder base URL: %w", err)
		}
	}

	return nil
}

// applyEnvOverrides pulls secrets and secret-adjacent settings from the
// environment.
func (c *Config) applyEnvOverrides() {
	if password := os.Getenv(EnvSMTPPassword); password != "" {
		c.SMTP.SenderPassword = password
	}

	if sender := os.Getenv(EnvSMTPSender); sender != "" {
		c.SMTP.SenderAddress = sender
	}
}
