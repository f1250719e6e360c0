package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/suiholar/research-dao-backend/internal/jobs"
	"github.com/suiholar/research-dao-backend/internal/ledgerexport"
)

var exportDir string

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run the cron scheduler until interrupted",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, _ []string) error {
		s := jobs.NewScheduler()
		if app.Investments != nil {
			if err := s.Add(jobs.FundingSyncJob(cfg.Jobs.FundingSyncSchedule, app.Projects)); err != nil {
				return err
			}
		} else {
			log.Println("funding sync disabled: SUI_PACKAGE_ID is not set")
		}
		if app.Exporter != nil {
			if err := s.Add(jobs.LedgerExportJob(cfg.Jobs.LedgerExportSchedule, app.Exporter)); err != nil {
				return err
			}
		} else {
			log.Println("ledger export disabled: EXPORT_S3_BUCKET is not set")
		}

		s.Start()
		<-ctx.Done()
		s.Stop()
		return nil
	}),
}

var syncFundingCmd = &cobra.Command{
	Use:   "sync-funding",
	Short: "Refresh current funding of every on-chain project once",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, _ []string) error {
		report, err := app.Projects.SyncFunding(ctx)
		printJSON(report)
		return err
	}),
}

var exportLedgerCmd = &cobra.Command{
	Use:   "export-ledger",
	Short: "Write one JSONL snapshot of projects and balances",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, _ []string) error {
		exporter := app.Exporter
		if exportDir != "" {
			exporter = app.LocalExporter(ledgerexport.DirDestination{Root: exportDir})
		}
		if exporter == nil {
			return fmt.Errorf("no export destination: set EXPORT_S3_BUCKET or pass --dir")
		}
		done, err := exporter.Run(ctx)
		if err != nil {
			return err
		}
		printJSON(done)
		return nil
	}),
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func init() {
	exportLedgerCmd.Flags().StringVar(&exportDir, "dir", "", "write to a local directory instead of S3")
	rootCmd.AddCommand(jobsCmd, syncFundingCmd, exportLedgerCmd)
}
