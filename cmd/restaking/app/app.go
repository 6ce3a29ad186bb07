package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/stumble/wpgx"

	"github.com/conr2d/restaking/internal/database/cache"
	dbwpgx "github.com/conr2d/restaking/internal/database/wpgx"
	"github.com/conr2d/restaking/internal/metric"
	zlog "github.com/conr2d/restaking/internal/zerolog"
	"github.com/conr2d/restaking/pkg/api"
	"github.com/conr2d/restaking/pkg/config"
	"github.com/conr2d/restaking/pkg/core"
	"github.com/conr2d/restaking/pkg/runtime"
	"github.com/conr2d/restaking/pkg/signer"
	"github.com/conr2d/restaking/pkg/store"
)

// App holds all the dependencies
type App struct {
	ctx   context.Context
	debug bool

	cfg     *config.Config
	program core.Pubkey
	signer  *signer.LocalSigner

	db           *wpgx.Pool
	redisConn    redis.UniversalClient
	accountStore store.AccountStore
	slots        runtime.SlotSource
	chainSlots   *runtime.ChainSlots
	runtime      *runtime.Runtime
	metricServer *metric.Server
	apiServer    *api.Server
}

// New creates a new application instance
func New(ctx context.Context, debug bool) *App {
	return &App{
		ctx:   ctx,
		debug: debug,
	}
}

// Run starts the application with the provided configuration
func (a *App) Run(cfgPath string) error {
	zlog.InitLogger(a.debug)

	if err := a.initConfig(cfgPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := a.initMetrics(); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	if err := a.initSigner(); err != nil {
		return fmt.Errorf("failed to initialize signer: %w", err)
	}

	if err := a.initStore(); err != nil {
		return fmt.Errorf("failed to initialize account store: %w", err)
	}

	if err := a.initSlots(); err != nil {
		return fmt.Errorf("failed to initialize slot source: %w", err)
	}

	if err := a.initRuntime(); err != nil {
		return fmt.Errorf("failed to initialize runtime: %w", err)
	}

	if err := a.initAPI(); err != nil {
		return fmt.Errorf("failed to initialize API: %w", err)
	}

	log.Info().Stringer("program", a.program).Msg("trust graph node started")

	// Wait forever
	select {}
}

// Shutdown gracefully stops the application
func (a *App) Shutdown() error {
	if a.apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.apiServer.Stop(ctx); err != nil {
			log.Error().Err(err).Msg("failed to stop API server")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.redisConn != nil {
		a.redisConn.Close()
	}
	if a.chainSlots != nil {
		a.chainSlots.Close()
	}
	return nil
}

// initConfig loads application configuration
func (a *App) initConfig(cfgPath string) error {
	var err error
	a.cfg, err = config.LoadConfig(cfgPath)
	if err != nil {
		metric.RecordError("config_load_failed")
		return err
	}
	a.program, err = a.cfg.ProgramID()
	return err
}

// initMetrics starts the metrics server
func (a *App) initMetrics() error {
	a.metricServer = metric.New(&metric.Config{
		Port: a.cfg.Metric.Port,
	})
	go func() {
		if err := a.metricServer.Start(); err != nil {
			metric.RecordError("metric_server_start_failed")
			log.Error().Err(err).Msg("failed to start metric server")
		}
	}()
	return nil
}

// initSigner loads the node's identity key when one is configured.
// The node can serve without one; operations carry their own
// signatures.
func (a *App) initSigner() error {
	if !a.cfg.Signer.IsValid() {
		log.Info().Msg("no signer configured, running in verify-only mode")
		return nil
	}
	var err error
	a.signer, err = a.cfg.Signer.Load()
	if err != nil {
		metric.RecordError("signer_init_failed")
		return err
	}
	log.Info().Stringer("identity", a.signer.Identity()).Msg("signer loaded")
	return nil
}

// initStore selects the account store backend: postgres with a redis
// read-through cache, or process-local memory.
func (a *App) initStore() error {
	if !a.cfg.Database.Enabled {
		a.accountStore = store.NewMemStore()
		log.Info().Msg("using in-memory account store")
		return nil
	}

	var err error
	a.db, err = dbwpgx.InitDB(a.ctx, 30*time.Second)
	if err != nil {
		metric.RecordError("database_connection_failed")
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	pgStore := store.NewPGStore(a.db)
	if err := pgStore.CreateSchema(a.ctx); err != nil {
		metric.RecordError("schema_creation_failed")
		return fmt.Errorf("failed to create schema: %w", err)
	}

	ttl, err := time.ParseDuration(a.cfg.Database.CacheTTL)
	if err != nil {
		return fmt.Errorf("invalid cache_ttl %q: %w", a.cfg.Database.CacheTTL, err)
	}

	var c cache.Cache
	a.redisConn, c, err = cache.InitCache()
	if err != nil {
		metric.RecordError("cache_init_failed")
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	a.accountStore = store.NewCachedStore(pgStore, c, ttl)
	log.Info().Dur("cache_ttl", ttl).Msg("using postgres account store with redis cache")
	return nil
}

// initSlots selects the slot source: chain head numbers when an RPC is
// configured, otherwise a manually advanced counter.
func (a *App) initSlots() error {
	if a.cfg.Chain.RPC == "" {
		a.slots = runtime.NewManualSlots(1)
		log.Info().Msg("using manual slot source")
		return nil
	}
	chainSlots, err := runtime.NewChainSlots(a.ctx, a.cfg.Chain.RPC)
	if err != nil {
		metric.RecordError("chain_connection_failed")
		return fmt.Errorf("failed to connect to chain rpc: %w", err)
	}
	a.chainSlots = chainSlots
	a.slots = chainSlots
	log.Info().Str("rpc", a.cfg.Chain.RPC).Msg("using chain slot source")
	return nil
}

func (a *App) initRuntime() error {
	a.runtime = runtime.New(a.program, a.accountStore, a.slots)
	return nil
}

// initAPI starts the HTTP surface
func (a *App) initAPI() error {
	handler := api.NewHandler(a.runtime)
	a.apiServer = api.NewServer(handler, a.cfg.HTTP.Port)
	go func() {
		if err := a.apiServer.Start(); err != nil {
			metric.RecordError("api_server_start_failed")
			log.Error().Err(err).Msg("API server stopped")
		}
	}()
	return nil
}
