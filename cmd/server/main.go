// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	allowlistmetrics "tokengate/internal/allowlist/metrics"
	allowlistsvc "tokengate/internal/allowlist/service"
	allowliststore "tokengate/internal/allowlist/store"
	"tokengate/internal/chainstate"
	"tokengate/internal/eoa"
	"tokengate/internal/platform/config"
	"tokengate/internal/platform/logger"
	policystore "tokengate/internal/policy/store"
	"tokengate/internal/seeder"
	"tokengate/internal/token"
	httptransport "tokengate/internal/transport/http"
	"tokengate/internal/validator"
	validatormetrics "tokengate/internal/validator/metrics"
	"tokengate/internal/validator/ports"
	"tokengate/internal/validator/tracer"
	"tokengate/pkg/domain"
	"tokengate/pkg/platform/audit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing tokengate",
		"addr", cfg.Addr,
		"persistent_registry", cfg.SQLiteDSN != "",
		"rpc_chain_state", cfg.EthRPCURL != "",
	)

	var listStore allowlistsvc.Store
	if cfg.SQLiteDSN != "" {
		db, err := sql.Open("sqlite", cfg.SQLiteDSN)
		if err != nil {
			log.Error("failed to open sqlite registry", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		sqliteStore := allowliststore.NewSQLite(db)
		if err := sqliteStore.Migrate(context.Background()); err != nil {
			log.Error("failed to migrate sqlite registry", "error", err)
			os.Exit(1)
		}
		listStore = sqliteStore
	} else {
		listStore = allowliststore.NewInMemory()
	}

	var chain ports.ChainState
	if cfg.EthRPCURL != "" {
		client, err := ethclient.Dial(cfg.EthRPCURL)
		if err != nil {
			log.Error("failed to dial eth rpc", "url", cfg.EthRPCURL, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		chain = chainstate.NewRPC(client, chainstate.WithRPCLogger(log))
	} else {
		chain = chainstate.NewInMemory()
	}

	auditStore := audit.NewInMemoryStore()
	auditor := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(1024),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	lists := allowlistsvc.New(listStore,
		allowlistsvc.WithLogger(log),
		allowlistsvc.WithAuditPublisher(auditor),
		allowlistsvc.WithMetrics(allowlistmetrics.New()),
	)
	policies := policystore.NewInMemory()
	eoaRegistry := eoa.NewRegistry(
		eoa.WithLogger(log),
		eoa.WithAuditPublisher(auditor),
	)
	directory := token.NewDirectory()

	facade := validator.New(policies, lists, eoaRegistry, chain, directory,
		validator.WithLogger(log),
		validator.WithAuditPublisher(auditor),
		validator.WithMetrics(validatormetrics.New()),
		validator.WithTracer(tracer.NewOTel()),
	)

	if cfg.DeployerAddress != "" {
		deployer, err := domain.ParseAddress(cfg.DeployerAddress)
		if err != nil {
			log.Error("invalid deployer address", "error", err)
			os.Exit(1)
		}
		if _, err := seeder.New(lists, log).SeedDefaultWhitelist(
			context.Background(), deployer, cfg.DefaultWhitelistName, nil,
		); err != nil {
			log.Error("failed to seed default operator whitelist", "error", err)
			os.Exit(1)
		}
	}

	handler := httptransport.NewHandler(facade, eoaRegistry, log)
	router := httptransport.NewRouter(handler, cfg.AdminJWTSigningKey, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
