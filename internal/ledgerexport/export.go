// Package ledgerexport snapshots the project registry and token ledger as JSONL.
package ledgerexport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"time"

	"github.com/suiholar/research-dao-backend/internal/events"
	"github.com/suiholar/research-dao-backend/internal/logging"
	projectdomain "github.com/suiholar/research-dao-backend/internal/projects/domain"
	tokendomain "github.com/suiholar/research-dao-backend/internal/tokens/domain"
)

// ProjectSource lists projects for a snapshot.
type ProjectSource interface {
	List(ctx context.Context, f projectdomain.ListFilter) ([]projectdomain.Project, error)
}

// BalanceSource lists every ledger record.
type BalanceSource interface {
	ListAll(ctx context.Context) ([]tokendomain.TokenBalance, error)
}

// Destination is where a finished snapshot is written.
type Destination interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// header is the first JSONL record of a snapshot.
type header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	ProjectCount int       `json:"project_count"`
	BalanceCount int       `json:"balance_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WriteJSONL writes a header, then projects sorted by id, then balances sorted by id.
func WriteJSONL(ctx context.Context, projects ProjectSource, balances BalanceSource, at time.Time, w io.Writer) (int, error) {
	ps, err := projects.List(ctx, projectdomain.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("list projects: %w", err)
	}
	bs, err := balances.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list balances: %w", err)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
	sort.Slice(bs, func(i, j int) bool { return bs[i].ID < bs[j].ID })

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:      "1",
		Type:         "header",
		Timestamp:    at.UTC(),
		ProjectCount: len(ps),
		BalanceCount: len(bs),
	}); err != nil {
		return 0, fmt.Errorf("encode header: %w", err)
	}
	for _, p := range ps {
		if err := enc.Encode(record{Type: "project", Data: p}); err != nil {
			return 0, fmt.Errorf("encode project %s: %w", p.ID, err)
		}
	}
	for _, b := range bs {
		if err := enc.Encode(record{Type: "balance", Data: b}); err != nil {
			return 0, fmt.Errorf("encode balance %s: %w", b.ID, err)
		}
	}
	return len(ps) + len(bs), nil
}

// Exporter writes snapshots to a destination.
type Exporter struct {
	projects ProjectSource
	balances BalanceSource
	dest     Destination
	prefix   string
	events   events.Publisher
	now      func() time.Time
}

func NewExporter(projects ProjectSource, balances BalanceSource, dest Destination, prefix string, pub events.Publisher) *Exporter {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	return &Exporter{
		projects: projects,
		balances: balances,
		dest:     dest,
		prefix:   prefix,
		events:   pub,
		now:      time.Now,
	}
}

// Key returns the object key for a snapshot taken at t.
func (e *Exporter) Key(t time.Time) string {
	name := "ledger-" + t.UTC().Format("20060102T150405Z") + ".jsonl"
	if e.prefix == "" {
		return name
	}
	return path.Join(e.prefix, name)
}

// Run takes one snapshot and returns the location it was written to.
func (e *Exporter) Run(ctx context.Context) (events.LedgerExported, error) {
	logger := logging.NewLogger(ctx)
	at := e.now()

	var buf bytes.Buffer
	n, err := WriteJSONL(ctx, e.projects, e.balances, at, &buf)
	if err != nil {
		logger.LogError("export_ledger", err)
		return events.LedgerExported{}, err
	}

	location, err := e.dest.Write(ctx, e.Key(at), buf.Bytes())
	if err != nil {
		logger.LogError("export_ledger", err)
		return events.LedgerExported{}, err
	}

	done := events.LedgerExported{Location: location, Records: n, At: at.UTC()}
	logger.LogInfof("export_ledger", "location=%s records=%d bytes=%d", location, n, buf.Len())
	if err := e.events.Publish(ctx, events.TopicLedgerExported, done); err != nil {
		logger.LogWarnf("export_ledger", "publish failed: %v", err)
	}
	return done, nil
}
