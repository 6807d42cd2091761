package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trickstertwo/xmsg/config"
)

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "router.types:            %v\n", cfg.Router.Types)
			fmt.Fprintf(out, "router.observer_workers: %d\n", cfg.Router.ObserverWorkers)
			fmt.Fprintf(out, "router.observer_buffer:  %d\n", cfg.Router.ObserverBuffer)
			fmt.Fprintf(out, "driver.tick_interval:    %v\n", cfg.Driver.TickInterval)
			fmt.Fprintf(out, "driver.concurrency:      %d\n", cfg.Driver.Concurrency)
			fmt.Fprintf(out, "driver.handler_timeout:  %v\n", cfg.Driver.HandlerTimeout)
			fmt.Fprintf(out, "driver.max_attempts:     %d\n", cfg.Driver.MaxAttempts)
			fmt.Fprintf(out, "driver.retry_backoff:    %v\n", cfg.Driver.RetryBackoff)
			fmt.Fprintf(out, "logging.level:           %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "logging.console:         %t\n", cfg.Logging.Console)
			return nil
		},
	}
}
