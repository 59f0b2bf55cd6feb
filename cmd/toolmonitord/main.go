// Command toolmonitord watches FANUC CNC controllers for tool-change
// events and publishes them to an MQTT bus.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"toolmonitor/internal/logging"
	"toolmonitor/internal/telemetry"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	tp := telemetry.NewNoopProvider()
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	if err := logging.Configure(logging.LevelInfo); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := rootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	var debug bool

	cmd := &cobra.Command{
		Use:     "toolmonitord",
		Short:   "FANUC CNC tool-change monitoring daemon",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelInfo
			if debug {
				level = logging.LevelDebug
			}
			return logging.Configure(level)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to config.yaml")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(runCmd(&configPath, &debug))
	cmd.AddCommand(validateConfigCmd(&configPath))
	cmd.AddCommand(versionCmd())
	return cmd
}
