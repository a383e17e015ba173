package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shellcmdr/shellcmdr/internal/dialog"
)

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check for an update and install it on acceptance",
		Long: `Update checks the remote version descriptor against the running build.
When a newer version exists and no other dialog is active, it asks for
confirmation, downloads the installer package, and extracts it over the
staged installation.

A missing or malformed remote descriptor is treated as "no update
available" and exits silently.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate()
		},
	}
}

func runUpdate() error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The checker runs on its own worker so the dialog loop stays free.
	checkErr := make(chan error, 1)
	go func() {
		checkErr <- p.checker().Run(ctx)
	}()
	if err := <-checkErr; err != nil {
		return err
	}

	if p.store.Step() != dialog.StepDownloaded {
		// No update, declined, or reported through the checker's own dialog.
		return nil
	}

	extractErr := make(chan error, 1)
	go func() {
		extractErr <- p.supervisor().Run(ctx)
	}()
	if err := <-extractErr; err != nil {
		return fmt.Errorf("update extraction failed: %w", err)
	}
	return nil
}
