package jobs

import (
	"context"
	"time"

	"github.com/suiholar/research-dao-backend/internal/events"
	projectservice "github.com/suiholar/research-dao-backend/internal/projects/service"
)

const (
	NameFundingSync  = "sync-funding"
	NameLedgerExport = "export-ledger"
)

// FundingSyncer refreshes on-chain funding totals.
type FundingSyncer interface {
	SyncFunding(ctx context.Context) (projectservice.SyncReport, error)
}

// LedgerExporter writes one ledger snapshot.
type LedgerExporter interface {
	Run(ctx context.Context) (events.LedgerExported, error)
}

func FundingSyncJob(schedule string, syncer FundingSyncer) Job {
	return Job{
		Name:     NameFundingSync,
		Schedule: schedule,
		Timeout:  5 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := syncer.SyncFunding(ctx)
			return err
		},
	}
}

func LedgerExportJob(schedule string, exporter LedgerExporter) Job {
	return Job{
		Name:     NameLedgerExport,
		Schedule: schedule,
		Timeout:  10 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := exporter.Run(ctx)
			return err
		},
	}
}
