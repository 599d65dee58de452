package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"finance-dashboard-go/internal/api"
	"finance-dashboard-go/internal/appwrite"
	"finance-dashboard-go/internal/banklink"
	"finance-dashboard-go/internal/config"
	"finance-dashboard-go/internal/database"
	"finance-dashboard-go/internal/dwolla"
	"finance-dashboard-go/internal/formance"
	"finance-dashboard-go/internal/ledger"
	"finance-dashboard-go/internal/models"
	"finance-dashboard-go/internal/plaid"
	"finance-dashboard-go/internal/provisioning"
	"finance-dashboard-go/internal/shareable"
	"finance-dashboard-go/internal/store"
	"finance-dashboard-go/internal/transfer"
	"finance-dashboard-go/internal/txsync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService *database.Service
	Journal   store.TransferJournal
	Dashboard *api.DashboardService
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices wires the store, the external adapters and the
// orchestration layers into a DashboardService.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	services, err := wire(ctx, cfg, dbService)
	if err != nil {
		dbService.Close()
		return nil, err
	}
	return services, nil
}

func wire(ctx context.Context, cfg *models.Config, dbService *database.Service) (*Services, error) {
	httpClient, err := NewHttpClient(cfg.Http)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	identity, err := appwrite.NewClient(cfg.Identity, httpClient)
	if err != nil {
		return nil, err
	}

	aggregator, err := plaid.NewClient(cfg.Plaid, httpClient)
	if err != nil {
		return nil, err
	}

	payments, err := dwolla.NewClient(cfg.Dwolla, httpClient)
	if err != nil {
		return nil, err
	}

	codec, err := shareable.NewCodec(cfg.Shareable.KeyHex)
	if err != nil {
		return nil, err
	}

	journal, err := initializeJournal(ctx, cfg, dbService)
	if err != nil {
		return nil, err
	}

	syncer := txsync.NewEngine(aggregator, cfg.Saga.MaxSyncPages)

	dashboard := api.NewDashboardService(
		dbService,
		provisioning.NewSaga(identity, payments, dbService,
			provisioning.WithRollbackTimeout(cfg.Saga.RollbackTimeout)),
		banklink.NewSaga(aggregator, payments, dbService, codec, cfg.Saga.LinkConcurrency),
		ledger.NewService(dbService, journal, aggregator, syncer, cfg.Saga.BalanceConcurrency),
		transfer.NewExecutor(dbService, journal, payments, codec),
	)

	zap.L().Info("Services initialized",
		zap.String("ledger_backend", cfg.Ledger.Backend),
		zap.String("plaid_env", cfg.Plaid.Environment),
		zap.String("dwolla_env", cfg.Dwolla.Environment))

	return &Services{
		DbService: dbService,
		Journal:   journal,
		Dashboard: dashboard,
	}, nil
}

func initializeJournal(ctx context.Context, cfg *models.Config, dbService *database.Service) (store.TransferJournal, error) {
	if cfg.Ledger.Backend != config.LedgerBackendFormance {
		return dbService, nil
	}

	zap.L().Info("Journaling transfers to Formance ledger", zap.String("stack_url", cfg.Formance.StackURL))
	journal, err := formance.NewService(ctx, cfg.Formance)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize formance journal: %w", err)
	}
	return journal, nil
}

// InitializeDatabaseOnly initializes just the database service without external providers
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	return database.NewService(ctx, cfg.Database)
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
