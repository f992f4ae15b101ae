package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"spacedrep/internal/bootstrap"
	"spacedrep/internal/platform/config"
	"spacedrep/internal/platform/logger"
)

const timeLayout = "2006-01-02 15:04"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var vaultPath string

	root := &cobra.Command{
		Use:           "spacedrep",
		Short:         "Spaced repetition for interview topics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&vaultPath, "vault", ".", "vault directory holding the database and session notes")

	root.AddCommand(newTopicCmd(&vaultPath))
	root.AddCommand(newReviewCmd(&vaultPath))
	root.AddCommand(newSessionCmd(&vaultPath))
	root.AddCommand(newStatsCmd(&vaultPath))
	return root
}

// withApp wires the application for one command and tears it down afterwards.
func withApp(vaultPath string, fn func(*bootstrap.App) error) error {
	cfg, err := config.Load(vaultPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(context.Background(), cfg, bootstrap.Options{Log: log})
	if err != nil {
		return err
	}
	runErr := fn(app)
	if err := app.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}
