package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/suiholar/research-dao-backend/config"
	"github.com/suiholar/research-dao-backend/internal/events"
	keyrepo "github.com/suiholar/research-dao-backend/internal/keystore/repository"
	keyservice "github.com/suiholar/research-dao-backend/internal/keystore/service"
	"github.com/suiholar/research-dao-backend/internal/ledgerexport"
	projectrepo "github.com/suiholar/research-dao-backend/internal/projects/repository"
	projectservice "github.com/suiholar/research-dao-backend/internal/projects/service"
	"github.com/suiholar/research-dao-backend/internal/storage/postgres"
	"github.com/suiholar/research-dao-backend/internal/sui"
	tokendomain "github.com/suiholar/research-dao-backend/internal/tokens/domain"
	tokenrepo "github.com/suiholar/research-dao-backend/internal/tokens/repository"
	tokenservice "github.com/suiholar/research-dao-backend/internal/tokens/service"
	"github.com/suiholar/research-dao-backend/internal/walrus"
)

// ledgerStore is the token ledger plus the full listing used by exports.
type ledgerStore interface {
	tokenservice.Ledger
	ListAll(ctx context.Context) ([]tokendomain.TokenBalance, error)
}

// App holds every long-lived dependency of the API and worker processes.
type App struct {
	Config *config.Config

	DB    *pgxpool.Pool
	SQL   *sql.DB
	Redis *redis.Client

	Events      events.Publisher
	Sui         *sui.Client
	Investments *sui.InvestmentChecker
	Relay       *walrus.Relay
	Gateway     *walrus.Gateway

	Keys     *keyservice.KeyService
	Tokens   *tokenservice.TokenService
	Projects *projectservice.ProjectService
	Exporter *ledgerexport.Exporter

	ledger   ledgerStore
	registry projectservice.Repository
}

// New connects configured backends and assembles the services. Unconfigured
// backends fall back to in-memory stores.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	if err := app.openStorage(ctx); err != nil {
		return nil, err
	}
	if err := app.openEvents(); err != nil {
		return nil, err
	}
	if err := app.openChain(); err != nil {
		return nil, err
	}
	app.Relay = walrus.NewRelay(cfg.Walrus.RelayURL)
	app.Gateway = walrus.NewGateway(cfg.Walrus.GatewayURL)

	if err := app.buildKeyService(ctx); err != nil {
		return nil, err
	}

	app.Tokens = tokenservice.NewTokenService(app.ledger, nil, app.Events)
	opts := []projectservice.Option{projectservice.WithPublisher(app.Events)}
	if app.Investments != nil {
		opts = append(opts, projectservice.WithChain(app.Investments, app.Sui))
	}
	app.Projects = projectservice.NewProjectService(app.registry, app.Tokens, opts...)
	app.Tokens.SetProjectDirectory(app.Projects)

	if cfg.Export.Bucket != "" {
		dest, err := ledgerexport.NewS3Destination(ctx, cfg.Export.Bucket, cfg.Export.Region, cfg.Export.Endpoint)
		if err != nil {
			return nil, err
		}
		app.Exporter = ledgerexport.NewExporter(app.registry, app.ledger, dest, cfg.Export.Prefix, app.Events)
	}

	ok = true
	return app, nil
}

func (a *App) openStorage(ctx context.Context) error {
	if !a.Config.Database.Enabled() {
		log.Println("[bootstrap] no database configured, using in-memory registry and ledger")
		a.ledger = tokenrepo.NewMemoryLedger()
		a.registry = projectrepo.NewMemoryRepo()
		return nil
	}

	sqlDB, err := postgres.NewConnection(&a.Config.Database)
	if err != nil {
		return err
	}
	a.SQL = sqlDB
	if err := postgres.Migrate(sqlDB); err != nil {
		return err
	}

	pool, err := OpenDB(ctx, DBOptions{DSN: postgres.DSN(&a.Config.Database)})
	if err != nil {
		return err
	}
	a.DB = pool

	a.ledger = tokenrepo.NewLedgerRepository(sqlDB)
	a.registry = projectrepo.NewRepo(pool)
	return nil
}

func (a *App) openEvents() error {
	if a.Config.Events.NATSURL == "" {
		a.Events = &events.NoopPublisher{}
		return nil
	}
	pub, err := events.NewNATSPublisher(a.Config.Events.NATSURL)
	if err != nil {
		return err
	}
	a.Events = pub
	return nil
}

func (a *App) openChain() error {
	rpcURL, err := sui.ResolveRPCURL(a.Config.Sui.Network, a.Config.Sui.RPCURL)
	if err != nil {
		return err
	}
	a.Sui = sui.NewClient(rpcURL, sui.WithRateLimit(a.Config.Sui.RPCRate, a.Config.Sui.RPCBurst))

	if a.Config.Sui.PackageID == "" {
		log.Println("[bootstrap] SUI_PACKAGE_ID is not set, key release and stake checks are disabled")
		return nil
	}
	ic, err := sui.NewInvestmentChecker(a.Sui, a.Config.Sui.PackageID, a.Config.Sui.Module)
	if err != nil {
		return err
	}
	a.Investments = ic
	return nil
}

func (a *App) buildKeyService(ctx context.Context) error {
	var repo keyrepo.Repository
	switch a.Config.KeyStore.Backend {
	case "redis":
		client, err := OpenRedis(ctx, a.Config.Redis)
		if err != nil {
			return err
		}
		a.Redis = client
		repo = keyrepo.NewRedisRepository(client, a.Config.KeyStore.TTL)
	case "memory":
		repo = keyrepo.NewMemoryRepository()
	default:
		return fmt.Errorf("unknown keystore backend %q", a.Config.KeyStore.Backend)
	}

	var checker keyservice.InvestmentChecker
	if a.Investments != nil {
		checker = a.Investments
	}
	a.Keys = keyservice.NewKeyService(repo, checker,
		keyservice.WithThreshold(a.Config.Access.MinPercentage),
		keyservice.WithPublisher(a.Events),
	)
	return nil
}

// Close releases every connection New opened.
func (a *App) Close() {
	if a.Events != nil {
		_ = a.Events.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.SQL != nil {
		_ = a.SQL.Close()
	}
}

// LocalExporter snapshots the same stores to another destination.
func (a *App) LocalExporter(dest ledgerexport.Destination) *ledgerexport.Exporter {
	return ledgerexport.NewExporter(a.registry, a.ledger, dest, a.Config.Export.Prefix, a.Events)
}
