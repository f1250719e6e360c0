package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suiholar/research-dao-backend/config"
	"github.com/suiholar/research-dao-backend/internal/events"
)

var watchCmd = &cobra.Command{
	Use:   "watch [subject]",
	Short: "Print domain events from NATS (default: every suiholar event)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if c.Events.NATSURL == "" {
			return fmt.Errorf("NATS_URL is not set")
		}
		subject := events.TopicAll
		if len(args) == 1 {
			subject = args[0]
		}

		sub, err := events.NewSubscriber(c.Events.NATSURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		out := cmd.OutOrStdout()
		return sub.Subscribe(cmd.Context(), subject, func(subj string, data []byte) {
			fmt.Fprintf(out, "%s %s\n", subj, data)
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
