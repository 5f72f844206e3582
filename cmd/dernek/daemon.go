package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/dernek/internal/common"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Seed on startup, then reseed on schedule and on content file changes",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	common.PrintBanner(common.GetVersion())

	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := application.StartBackground(ctx); err != nil {
		return err
	}

	logger.Info().
		Str("storage", application.StorageManager.Backend()).
		Str("seed_schedule", config.Seed.Schedule).
		Bool("watch", config.Watch.Enabled).
		Msg("Daemon ready - Press Ctrl+C to stop")

	for name, status := range application.SchedulerService.GetAllJobStatuses() {
		event := logger.Info().Str("job", name).Str("schedule", status.Schedule)
		if status.NextRun != nil {
			event = event.Str("next_run", status.NextRun.Format(time.RFC3339))
		}
		event.Msg("Scheduled job registered")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		logger.Info().Msg("Interrupt signal received")
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down daemon")
	return nil
}
