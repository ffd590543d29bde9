package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc/health"

	"zync/backend/internal/audit"
	auditrepo "zync/backend/internal/audit/repository"
	challengerepo "zync/backend/internal/challenge/repository"
	"zync/backend/internal/config"
	"zync/backend/internal/db"
	"zync/backend/internal/db/migrate"
	healthhandler "zync/backend/internal/health/handler"
	"zync/backend/internal/instancer"
	"zync/backend/internal/logging"
	"zync/backend/internal/plugin"
	"zync/backend/internal/policy/engine"
	"zync/backend/internal/security"
	"zync/backend/internal/server"
	"zync/backend/internal/server/middleware"
	"zync/backend/internal/telemetry/otel"
	"zync/backend/internal/zyncconfig"
	configrepo "zync/backend/internal/zyncconfig/repository"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogJSON, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("exiting", "error", err)
		os.Exit(1)
	}
}

// repositories groups the storage backends selected at startup.
type repositories struct {
	sqlDB      *sql.DB
	config     configrepo.Repository
	challenges challengerepo.Repository
	audit      auditrepo.Repository
}

func openRepositories(ctx context.Context, cfg *config.Config, log hclog.Logger) (*repositories, error) {
	if cfg.DatabaseURL == "" {
		seed, err := cfg.Challenges()
		if err != nil {
			return nil, err
		}
		log.Warn("DATABASE_URL not set; using in-memory storage, configuration is lost on restart",
			"seed_challenges", len(seed))
		if len(seed) == 0 {
			log.Warn("challenge directory is empty; /deploy/token rejects every challenge until ZYNC_SEED_CHALLENGES is set")
		}
		return &repositories{
			config:     configrepo.NewMemoryRepository(),
			challenges: challengerepo.NewMemoryRepository(seed...),
			audit:      auditrepo.NewMemoryRepository(),
		}, nil
	}
	if err := migrate.Run(cfg.DatabaseURL, "up"); err != nil {
		return nil, err
	}
	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	return &repositories{
		sqlDB:      sqlDB,
		config:     configrepo.NewPostgresRepository(sqlDB),
		challenges: challengerepo.NewPostgresRepository(sqlDB),
		audit:      auditrepo.NewPostgresRepository(sqlDB),
	}, nil
}

func run(ctx context.Context, cfg *config.Config, log hclog.Logger) error {
	providers, err := otel.NewProviders(ctx, otel.Options{
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: cfg.ServiceName,
		Insecure:    cfg.OTelInsecure,
	}, log.Named("telemetry"))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	if repos.sqlDB != nil {
		defer repos.sqlDB.Close()
	}

	auditLogger := audit.NewLogger(repos.audit, otel.NewAuditEmitter(providers.LoggerProvider), middleware.ClientIPOf, log)

	store := zyncconfig.NewStore(repos.config, log)
	override := cfg.StartupOverride()
	if _, err := store.ApplyOverride(ctx, override); err != nil {
		return err
	}
	if !override.IsEmpty() {
		auditLogger.LogEvent(ctx, "", audit.ActionConfigOverride, audit.ResourceConfig, "")
	}

	if cfg.HostJWTPublicKey == "" {
		return errors.New("config: HOST_JWT_PUBLIC_KEY must be set")
	}
	hostKey, err := security.ParsePublicKey(cfg.HostJWTPublicKey)
	if err != nil {
		return fmt.Errorf("host public key: %w", err)
	}
	verifier := security.NewIdentityVerifier(hostKey, cfg.HostJWTIssuer, cfg.HostJWTAudience)

	policy, err := engine.NewOPAEvaluator(ctx)
	if err != nil {
		return err
	}

	host := server.NewHTTPHost(verifier, policy, log)
	err = plugin.Load(host, plugin.Deps{
		Config:     store,
		Challenges: repos.challenges,
		Checker:    instancer.NewChecker(cfg.CheckTimeout()),
		Audit:      auditLogger,
		Log:        log,
	})
	if err != nil {
		return err
	}

	var pinger healthhandler.Pinger
	if repos.sqlDB != nil {
		pinger = repos.sqlDB
	}
	checker := healthhandler.NewChecker(pinger, policy)
	host.HandlePublic(server.HealthPath, healthhandler.HTTPHandler(checker, log.Named("health")))

	errCh := make(chan error, 2)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           host,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	var stopGRPC func()
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		hs := health.NewServer()
		go healthhandler.Monitor(ctx, checker, hs, healthhandler.DefaultMonitorInterval, log.Named("health"))
		grpcSrv := server.NewGRPCServer(hs)
		go func() {
			log.Info("gRPC health server listening", "addr", cfg.GRPCAddr)
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
		stopGRPC = grpcSrv.GracefulStop
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if stopGRPC != nil {
		stopGRPC()
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("stopped")
	return nil
}
