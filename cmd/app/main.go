// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/cache"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/config"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/audit"
	pg "github.com/Chucho1991/pagosdigitales-sub000/internal/infra/db/postgres"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/logging"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/metrics"
	red "github.com/Chucho1991/pagosdigitales-sub000/internal/infra/redis"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/sched"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/security"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/transport"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/web"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/infra/worker"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/mapping"
	"github.com/Chucho1991/pagosdigitales-sub000/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	poolSize := int32(cfg.Database.PoolSize)
	if poolSize <= 0 {
		poolSize = 10
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, poolSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	locker := red.NewLocker(redisClient)

	// ---- Encryption ----
	encKey := cfg.Security.EncryptionKey
	if len(encKey) != 32 {
		logger.Warn().Msg("security.encryption_key not set or not 32 bytes; falling back to dev key (INSECURE)")
		encKey = "0123456789abcdef0123456789abcdef"
	}
	encSvc, err := security.NewEncryptionService(encKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("encryption")
	}

	// ---- Config store & snapshots ----
	store := pg.NewConfigStore(pool)
	endpointCache := cache.NewEndpointCache(store, logger)
	definitionCache := cache.NewDefinitionCache(store, logger)
	headerCache := cache.NewHeaderCache(store, logger)
	ruleCache := cache.NewMappingRuleCache(store, logger)
	webhookCache := cache.NewWebhookProviderCache(store, encSvc, logger)
	bankCache := cache.NewBankCache(store, logger)

	endpointCache.Load(ctx)
	definitionCache.Load(ctx)
	headerCache.Load(ctx)
	ruleCache.Load(ctx)
	webhookCache.Load(ctx)
	bankCache.Load(ctx)

	refreshers := []cache.Refresher{
		endpointCache, definitionCache, headerCache, ruleCache, webhookCache, bankCache,
	}

	// ---- Repositories ----
	notifRepo := pg.NewNotificationRepo(pool)
	auditRepo := pg.NewAuditRepo(pool)

	// ---- Audit sink ----
	auditPool := worker.NewPool(cfg.Audit.Workers, cfg.Audit.QueueSize, logger)
	auditPool.Start(ctx)
	defer auditPool.Stop()
	auditSink := audit.NewSink(auditPool, auditRepo, logger)

	// ---- Use cases ----
	endpointUC := usecase.NewEndpointUseCase(endpointCache, definitionCache, headerCache, logger)
	resolver := mapping.NewResolver(ruleCache)
	transformUC := usecase.NewTransformUseCase(resolver, endpointUC, logger)
	restClient := transport.NewRestClient(cfg.Transport.Timeout, logger)
	paymentUC := usecase.NewPaymentUseCase(endpointUC, transformUC, restClient, auditSink, logger)
	bankUC := usecase.NewBankUseCase(bankCache, endpointUC, transformUC, restClient, logger)
	webhookUC := usecase.NewWebhookUseCase(cfg.Webhook.Enabled, webhookCache, notifRepo, locker, cfg.Redis.LockTTL, logger)

	// ---- Refresh worker ----
	refreshWorker := sched.NewRefreshWorker(cfg.Cache.RefreshInterval, refreshers, logger)
	go func() { _ = refreshWorker.Run(ctx) }()

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.SessionTTL)
	srv := web.NewServer(bankUC, paymentUC, webhookUC, refreshWorker, auth, logger)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := srv.Run(ctx, addr, cfg.Transport.Timeout+5*time.Second); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
}
