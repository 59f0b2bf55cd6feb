package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolmonitor/internal/config"
)

func validateConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load and validate config.yaml without starting the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			fmt.Printf("config OK: env=%s mqtt=%s:%d machines=%d\n",
				cfg.Env, cfg.MQTT.Host, cfg.MQTT.Port, len(cfg.Machines))
			return nil
		},
	}
}
