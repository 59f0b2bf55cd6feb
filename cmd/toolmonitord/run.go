package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"toolmonitor/internal/config"
	"toolmonitor/internal/logging"
	"toolmonitor/internal/service"
	"toolmonitor/internal/statusui"
	"toolmonitor/internal/telemetry"
)

func runCmd(configPath *string, debugFlag *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the monitoring service in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			// The --debug persistent flag always wins; otherwise the
			// config file's log_level takes over from the startup
			// default now that a config is actually loaded.
			if debugFlag == nil || !*debugFlag {
				if err := logging.Configure(cfg.LogLevel); err != nil {
					return fmt.Errorf("configure logging: %w", err)
				}
			}

			statusui.Init()
			fmt.Println(statusui.Banner(cfg))

			tracer := telemetry.NewTracer("toolmonitor")
			svc, err := service.New(cfg, tracer)
			if err != nil {
				return fmt.Errorf("create service: %w", err)
			}

			return svc.Run(ctx)
		},
	}
}
