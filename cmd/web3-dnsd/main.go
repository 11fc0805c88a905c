package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/clock"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/metrics"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/rrdata"
	"github.com/ethlimo/limo-web3-dns/internal/dns/config"
	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/addr"
	ensgw "github.com/ethlimo/limo-web3-dns/internal/dns/gateways/ens"
	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/transport"
	"github.com/ethlimo/limo-web3-dns/internal/dns/repos/denylist"
	"github.com/ethlimo/limo-web3-dns/internal/dns/repos/denylist/bloom"
	"github.com/ethlimo/limo-web3-dns/internal/dns/repos/denylist/bolt"
	"github.com/ethlimo/limo-web3-dns/internal/dns/repos/denylist/lru"
	enssvc "github.com/ethlimo/limo-web3-dns/internal/dns/services/ens"
	"github.com/ethlimo/limo-web3-dns/internal/dns/services/responder"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "web3-dnsd"

	defaultStartupTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// ensGateway is what the daemon needs from the ENS client.
type ensGateway interface {
	ResolveField(ctx context.Context, name, field string) (string, error)
	ChainInfo(ctx context.Context) (ensgw.ChainInfo, error)
	Close()
}

// dialENS is swapped out in tests.
var dialENS = func(ctx context.Context, opts ensgw.Options) (ensGateway, error) {
	c, err := ensgw.Dial(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Application holds all the components of the DNS server
type Application struct {
	config    *config.AppConfig
	transport transport.ServerTransport
	responder *responder.Responder
	metrics   *metrics.Server
	denylist  denylist.Repository
	gateway   ensGateway
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"app":          appName,
		"version":      version,
		"env":          cfg.Env,
		"log_level":    cfg.LogLevel,
		"udp_bind":     cfg.UDPBind,
		"rpc_endpoint": cfg.RPCEndpoint,
		"workers":      cfg.Workers,
		"classifier":   cfg.Classifier,
	}, "Starting web3 DNS gateway")

	startCtx, cancelStart := context.WithTimeout(context.Background(), defaultStartupTimeout)
	app, err := buildApplication(startCtx, cfg)
	cancelStart()
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range sigChan {
			if sig == syscall.SIGHUP {
				if err := app.ReloadDenylist(); err != nil {
					log.Error(map[string]any{"error": err}, "Denylist reload failed")
				}
				continue
			}
			log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
			cancel()
			return
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "web3 DNS gateway stopped gracefully")
	_ = log.Sync()
}

// buildApplication dials the chain and wires every component. A chain that
// cannot report its id and head fails startup.
func buildApplication(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	gw, err := dialENS(ctx, ensgw.Options{
		Endpoint: cfg.RPCEndpoint,
		Timeout:  cfg.RPCTimeout,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	info, err := gw.ChainInfo(ctx)
	if err != nil {
		gw.Close()
		return nil, fmt.Errorf("failed to query chain: %w", err)
	}
	log.Info(map[string]any{
		"chain_id":   info.ChainID.String(),
		"block":      info.Block.String(),
		"block_time": info.BlockTime.Format(time.RFC3339),
	}, "Connected to chain")

	app, err := assemble(cfg, gw, logger)
	if err != nil {
		gw.Close()
		return nil, err
	}
	return app, nil
}

func assemble(cfg *config.AppConfig, gw ensGateway, logger log.Logger) (*Application, error) {
	deny, err := buildDenylist(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build denylist: %w", err)
	}

	rules := make([]enssvc.ServiceRule, 0, len(cfg.ServiceRules))
	for _, s := range cfg.ServiceRules {
		rule, err := enssvc.ParseServiceRule(s)
		if err != nil {
			_ = deny.Close()
			return nil, err
		}
		rules = append(rules, rule)
	}
	classifier, err := enssvc.NewClassifier(cfg.Classifier, enssvc.DefaultServiceTable(), rules)
	if err != nil {
		_ = deny.Close()
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	provider, err := enssvc.NewProvider(enssvc.Options{
		Resolver:   gw,
		Classifier: classifier,
		Denylist:   deny,
		Logger:     logger,
	})
	if err != nil {
		_ = deny.Close()
		return nil, fmt.Errorf("failed to build answer provider: %w", err)
	}
	resp := responder.NewResponder(provider, rrdata.NewEncoder(addr.NewMultiaddrParser()), logger)

	limiter, err := transport.NewRateLimiter(cfg.RateLimitQPS, cfg.RateLimitBurst, cfg.RateLimitClients)
	if err != nil {
		_ = deny.Close()
		return nil, fmt.Errorf("failed to build rate limiter: %w", err)
	}
	tr, err := transport.NewTransport(transport.TransportUDP, cfg.UDPBind, transport.Options{
		Workers: int64(cfg.Workers),
		Limiter: limiter,
		Logger:  logger,
	})
	if err != nil {
		_ = deny.Close()
		return nil, fmt.Errorf("failed to build transport: %w", err)
	}

	app := &Application{
		config:    cfg,
		transport: tr,
		responder: resp,
		denylist:  deny,
		gateway:   gw,
	}
	if cfg.MetricsAddr != "" {
		app.metrics = metrics.NewServer(cfg.MetricsAddr, logger)
	}
	return app, nil
}

// buildDenylist opens the store and loads the list when a path is set.
func buildDenylist(cfg *config.AppConfig, logger log.Logger) (denylist.Repository, error) {
	if cfg.DenylistPath == "" {
		logger.Info(map[string]any{"disabled": true}, "Denylist disabled")
		return denylist.NoopRepository{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DenylistDB), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create denylist directory: %w", err)
	}
	store, err := bolt.New(cfg.DenylistDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open denylist store %s: %w", cfg.DenylistDB, err)
	}
	cache, err := lru.New(cfg.DenylistCacheSize)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create denylist cache: %w", err)
	}
	repo := denylist.NewRepository(store, cache, bloom.NewFactory(), denylist.DefaultFPRate)

	if _, err := denylist.LoadFile(cfg.DenylistPath, repo, clock.RealClock{}, logger); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

// ReloadDenylist re-reads the configured list. It is a no-op when no list is
// configured.
func (app *Application) ReloadDenylist() error {
	if app.config.DenylistPath == "" {
		return nil
	}
	_, err := denylist.LoadFile(app.config.DenylistPath, app.denylist, clock.RealClock{}, log.GetLogger())
	return err
}

// Run starts the DNS server and blocks until context is cancelled
func (app *Application) Run(ctx context.Context) error {
	if app.metrics != nil {
		if err := app.metrics.Start(); err != nil {
			app.close()
			return err
		}
	}

	if err := app.transport.Start(ctx, app.responder); err != nil {
		app.stopMetrics()
		app.close()
		return fmt.Errorf("failed to start UDP transport: %w", err)
	}

	log.Info(map[string]any{
		"address":   app.transport.Address(),
		"transport": "UDP",
	}, "DNS server started")

	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	done := make(chan error, 1)
	go func() {
		done <- app.transport.Stop()
	}()

	var err error
	select {
	case stopErr := <-done:
		if stopErr != nil {
			log.Warn(map[string]any{"error": stopErr}, "Error during transport shutdown")
		}
		log.Info(nil, "Graceful shutdown completed")
	case <-time.After(defaultShutdownTimeout):
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		err = fmt.Errorf("shutdown timeout")
	}

	app.stopMetrics()
	app.close()
	return err
}

func (app *Application) stopMetrics() {
	if app.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := app.metrics.Stop(ctx); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during metrics shutdown")
	}
}

func (app *Application) close() {
	if err := app.denylist.Close(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error closing denylist")
	}
	app.gateway.Close()
}
