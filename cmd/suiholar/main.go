package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/suiholar/research-dao-backend/internal/articles"
	"github.com/suiholar/research-dao-backend/internal/client"
	"github.com/suiholar/research-dao-backend/internal/walrus"
)

var defaults = Profile{
	APIURL:     "http://localhost:8080",
	GatewayURL: walrus.DefaultGatewayURL,
}

var (
	profilePath string
	flags       Profile

	// current is the flags over the saved profile over the defaults.
	current Profile
)

var rootCmd = &cobra.Command{
	Use:           "suiholar <command>",
	Short:         "Publish and read token-gated research articles",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		saved, err := loadProfile(profilePath)
		if err != nil {
			return err
		}
		current = flags.merge(saved).merge(defaults)
		return nil
	},
}

func newPublisher() *articles.Publisher {
	api := client.New(current.APIURL, client.WithAPIKey(current.APIKey))
	return articles.NewPublisher(api, walrus.NewGateway(current.GatewayURL))
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&profilePath, "profile", defaultProfilePath(), "profile file")
	pf.StringVar(&flags.APIURL, "api-url", "", "API base URL")
	pf.StringVar(&flags.APIKey, "api-key", "", "API key for key registration")
	pf.StringVar(&flags.GatewayURL, "gateway", "", "Walrus gateway blobs URL")
	pf.StringVar(&flags.Address, "address", "", "investor wallet address")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
