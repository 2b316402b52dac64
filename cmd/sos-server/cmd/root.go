// Package cmd wires the sos-server command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhivyapriya/sos-guardian/internal/config"
	"github.com/dhivyapriya/sos-guardian/internal/service/server"
	"github.com/dhivyapriya/sos-guardian/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for running the SOS server.
	rootCmd = &cobra.Command{
		Use:   "sos-server [listen-address]",
		Short: "Run the SOS alert server.",
		Long: `Starts the HTTP server that runs the SOS alert pipeline.

A trigger starts an alert cycle; the browser deposits its geolocation result
under the cycle's correlation key, and the server reverse-geocodes the
coordinates, finds the nearest hospitals and police stations, and emails the
composed alert to the trusted contacts.

The listen address can be provided as an argument to override the
configuration (e.g., :9090, 0.0.0.0:8080). The SMTP sender password is read
from the ` + config.EnvSMTPPassword + ` environment variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the sos-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
