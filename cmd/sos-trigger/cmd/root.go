// Package cmd wires the sos-trigger command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhivyapriya/sos-guardian/internal/service/client"
	"github.com/dhivyapriya/sos-guardian/internal/version"
)

var (
	// source of the trigger: button, voice or sound.
	source string
	// keyword detected for voice triggers.
	keyword string
	// level detected for sound triggers.
	level float64
	// latitude and longitude to deposit as the location result.
	latitude  float64
	longitude float64

	// rootCmd represents the base command for triggering an SOS.
	rootCmd = &cobra.Command{
		Use:   "sos-trigger <server-url>",
		Short: "Trigger an SOS alert through a running SOS server.",
		Long: `Triggers an SOS cycle on the server, deposits a location result and waits
for the cycle to finish.

When --lat and --lon are given they are deposited as the location; otherwise
an explicit "no location source" failure is deposited, which still drives the
cycle to a terminal status.

This is the phone-less path through the pipeline, for desk panic buttons and
for exercising a deployment end to end.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			hasLocation := cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")

			return client.Run(ctx, &client.Options{
				ServerURL:   args[0],
				Source:      source,
				Keyword:     keyword,
				Level:       level,
				Latitude:    latitude,
				Longitude:   longitude,
				HasLocation: hasLocation,
			})
		},
	}
)

// Execute runs the sos-trigger CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&source, "source", "s", "button", "trigger source: button, voice or sound")
	rootCmd.Flags().StringVarP(&keyword, "keyword", "k", "", "detected phrase for voice triggers")
	rootCmd.Flags().Float64VarP(&level, "level", "l", 0, "detected loudness for sound triggers")
	rootCmd.Flags().Float64Var(&latitude, "lat", 0, "latitude to deposit as the location result")
	rootCmd.Flags().Float64Var(&longitude, "lon", 0, "longitude to deposit as the location result")
}
