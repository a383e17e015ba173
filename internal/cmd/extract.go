package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract an already-downloaded installer package",
		Long: `Extract runs the extraction stage alone against the installer package at
its fixed staging path. Useful after an extraction failure: the pipeline
never retries on its own, the whole operation must be re-triggered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract()
		},
	}
}

func runExtract() error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.log.Sync()

	pkg := p.cfg.Paths().PackageFile()
	if _, err := os.Stat(pkg); err != nil {
		return fmt.Errorf("no staged installer package at %s", pkg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractErr := make(chan error, 1)
	go func() {
		extractErr <- p.supervisor().Run(ctx)
	}()
	return <-extractErr
}
