package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/auth"
	"github.com/BruksfildServices01/barbearia-console/internal/backup"
	"github.com/BruksfildServices01/barbearia-console/internal/bus"
	"github.com/BruksfildServices01/barbearia-console/internal/config"
	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	dbpkg "github.com/BruksfildServices01/barbearia-console/internal/db"
	"github.com/BruksfildServices01/barbearia-console/internal/handlers"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
	"github.com/BruksfildServices01/barbearia-console/internal/routes"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

// App holds the process-wide singletons shared by the commands.
type App struct {
	Config   *config.Config
	Location *time.Location
	Clock    timezone.Clock

	DB    *gorm.DB
	Redis *redis.Client
	Bus   *bus.Bus
	Store *storage.Adapter

	Engine    *datasync.Engine
	Auth      *auth.Service
	AuditSink audit.Sink
	Audit     *audit.Dispatcher
	Snapshots backup.Taker

	Appointments *repository.AppointmentRepository
	Clients      *repository.ClientRepository
	Employees    *repository.EmployeeRepository
	Expenses     *repository.ExpenseRepository
	Cash         *repository.CashLedger
	Catalog      *repository.Catalog

	forwarder *bus.RedisForwarder
	cancel    context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	loc := timezone.Location(cfg.Timezone)
	a := &App{
		Config:   cfg,
		Location: loc,
		Clock:    timezone.SystemClock(loc),
		Bus:      bus.New(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	// ======================================================
	// STORAGE
	// ======================================================
	var backend storage.Backend
	switch cfg.StorageDriver {
	case "memory":
		backend = storage.NewMemoryBackend()
		a.AuditSink = audit.NewMemorySink(500)
	case "postgres", "":
		a.DB = dbpkg.NewDB(cfg)
		backend = storage.NewGormBackend(a.DB)
		a.AuditSink = audit.New(a.DB)
	default:
		cancel()
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	a.Store = storage.NewAdapter(backend, a.Bus)

	// ======================================================
	// CHANGE FEED
	// ======================================================
	if cfg.RedisAddr != "" {
		client, err := bus.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Printf("[app] redis unavailable, change feed stays local: %v", err)
		} else {
			a.Redis = client
			a.forwarder = bus.NewRedisForwarder(client, cfg.SyncChannel)
			a.Bus.AddForwarder(a.forwarder)
			go a.forwarder.Listen(ctx, a.Bus)
		}
	}

	// ======================================================
	// REPOSITORIES + ENGINE
	// ======================================================
	a.Appointments = repository.NewAppointmentRepository(a.Store, a.Clock)
	a.Clients = repository.NewClientRepository(a.Store, a.Clock)
	a.Employees = repository.NewEmployeeRepository(a.Store, a.Clock)
	a.Expenses = repository.NewExpenseRepository(a.Store, a.Clock)
	a.Cash = repository.NewCashLedger(a.Store, a.Clock)
	a.Catalog = repository.NewCatalog(a.Store, a.Clock)

	a.Engine = datasync.New(a.Store, datasync.Options{
		Clock:                  a.Clock,
		DedupeCrossPostedSales: cfg.CommissionDedupe,
	})

	a.Audit = audit.NewDispatcher(a.AuditSink)

	opts := auth.Options{
		RemoteTimeout: cfg.AuthRemoteTimeout,
		SessionTTL:    cfg.SessionTTL,
		Clock:         a.Clock,
	}
	if cfg.AuthRemoteURL != "" {
		opts.Remote = auth.NewHTTPVerifier(cfg.AuthRemoteURL)
	}
	a.Auth = auth.NewService(a.Employees, a.Store, opts)

	if cfg.Backup.Enabled() {
		a.Snapshots = backup.NewSnapshotter(
			a.Store,
			backup.NewS3Client(cfg.Backup),
			cfg.Backup.Bucket,
			cfg.Backup.Prefix,
			a.Clock,
		)
	}

	return a, nil
}

// Seed writes the default records of every collection that is still empty,
// so derived views (commissions read employees directly) see them.
func (a *App) Seed(ctx context.Context) {
	a.Employees.List(ctx)
	a.Clients.List(ctx)
	a.Catalog.Services(ctx)
	a.Catalog.Products(ctx)
	a.Expenses.List(ctx, repository.ExpenseFilter{})
	a.Cash.Balance(ctx)
	a.Appointments.List(ctx)
}

func (a *App) HealthChecks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if a.DB != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (a *App) Routes() routes.Deps {
	return routes.Deps{
		Config:       a.Config,
		Store:        a.Store,
		Bus:          a.Bus,
		Clock:        a.Clock,
		Location:     a.Location,
		Engine:       a.Engine,
		Auth:         a.Auth,
		Audit:        a.Audit,
		AuditSink:    a.AuditSink,
		Snapshots:    a.Snapshots,
		Appointments: a.Appointments,
		Clients:      a.Clients,
		Employees:    a.Employees,
		Expenses:     a.Expenses,
		Cash:         a.Cash,
		Catalog:      a.Catalog,
		Health:       a.HealthChecks(),
	}
}

// Close drains the audit queue and releases connections.
func (a *App) Close() {
	a.cancel()
	a.Audit.Close()
	if a.forwarder != nil {
		a.forwarder.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
