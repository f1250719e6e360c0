package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/suiholar/research-dao-backend/config"
	"github.com/suiholar/research-dao-backend/internal/bootstrap"
)

var (
	cfg *config.Config
	app *bootstrap.App
)

var rootCmd = &cobra.Command{
	Use:           "worker <command>",
	Short:         "Background jobs for the research DAO backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// withApp loads config and assembles the services for commands that need them.
func withApp(run func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg == nil {
			if cfg, err = config.Load(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
		}
		app, err = bootstrap.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		defer app.Close()
		return run(cmd.Context(), args)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
