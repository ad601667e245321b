package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/complyhub/riskgate/internal/config"
	"github.com/complyhub/riskgate/internal/handler"
	"github.com/complyhub/riskgate/internal/middleware"
	"github.com/complyhub/riskgate/internal/pkg/logger"
	"github.com/complyhub/riskgate/internal/repository"
	"github.com/complyhub/riskgate/internal/risk"
	"github.com/complyhub/riskgate/internal/service"
	"github.com/complyhub/riskgate/internal/signer"
	"github.com/complyhub/riskgate/internal/stream"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.LogLevel)

	policy, err := cfg.Risk.Policy()
	if err != nil {
		logger.Fatal("Invalid risk policy", "error", err)
	}
	engine, err := risk.NewEngine(policy)
	if err != nil {
		logger.Fatal("Failed to build risk engine", "error", err)
	}

	// 2. Initialize Persistence (Postgres > Memory)
	var (
		db             *gorm.DB
		entityRepo     service.EntityRepo
		assessmentRepo service.AssessmentRepo
		auditRepo      service.AuditRepo
		pgAudit        *repository.PostgresAuditRepo
	)
	if cfg.Database.DSN != "" {
		db, err = repository.NewDB(cfg)
		if err == nil {
			logger.Info("✅ Connected to PostgreSQL")
			entityRepo = repository.NewPostgresEntityRepo(db)
			assessmentRepo = repository.NewPostgresAssessmentRepo(db)
			pgAudit = repository.NewPostgresAuditRepo(db)
			auditRepo = pgAudit
		} else {
			logger.Error("⚠️ Failed to connect to DB, falling back to memory", "error", err)
		}
	}
	if entityRepo == nil {
		entityRepo = service.NewEntityRegistry()
		assessmentRepo = service.NewAssessmentStore(0)
	}

	// Redis: latest cache, idempotency, audit list
	var (
		redisClient *repository.RedisClient
		idemStore   middleware.IdempotencyStore
		assessOpts  []service.AssessmentOption
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = repository.NewRedisClient(cfg)
		if err == nil {
			logger.Info("✅ Connected to Redis")
			assessOpts = append(assessOpts, service.WithLatestCache(
				repository.NewRedisLatestCache(redisClient, time.Duration(cfg.Redis.LatestTTLSeconds)*time.Second)))
			idemStore = repository.NewRedisIdempotencyStore(redisClient, time.Duration(cfg.Redis.IdempotencyTTLSeconds)*time.Second)
			if auditRepo == nil {
				auditRepo = repository.NewRedisAuditRepo(redisClient, cfg.Redis.AuditListKey, cfg.Redis.AuditListMax)
			}
		} else {
			logger.Error("⚠️ Failed to connect to Redis, falling back to memory", "error", err)
			redisClient = nil
		}
	}
	if idemStore == nil {
		idemStore = middleware.NewInMemIdempotencyStore(time.Duration(cfg.Redis.IdempotencyTTLSeconds) * time.Second)
	}

	// 3. Initialize Core Services
	if cfg.Attestation.PrivateKey != "" {
		sg, err := signer.NewSigner(cfg.Attestation.PrivateKey, cfg.Attestation.ChainID)
		if err != nil {
			logger.Fatal("Invalid attestation key", "error", err)
		}
		logger.Info("Attestation signing enabled", "signer", sg.Address().Hex(), "chain_id", sg.ChainID())
		assessOpts = append(assessOpts, service.WithAttestationSigner(sg))
	}

	hub := stream.NewHub()
	assessOpts = append(assessOpts, service.WithPublisher(hub))

	auditSvc, err := service.NewAuditService(cfg.Audit.LogDir, cfg.Audit.BufferSize, auditRepo)
	if err != nil {
		logger.Fatal("Failed to initialize audit service", "error", err)
	}

	entitySvc := service.NewEntityService(entityRepo)
	assessmentSvc := service.NewAssessmentService(engine, entityRepo, assessmentRepo, assessOpts...)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	// 4. Setup Router
	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(handler.RouterDeps{
		Entities:    entitySvc,
		Assessments: assessmentSvc,
		Audit:       auditSvc,
		Hub:         hub,
		Policy:      engine.Policy(),
		Idempotency: idemStore,
		Limiters:    middleware.NewClientLimiters(cfg.RateLimit.QPS, cfg.RateLimit.Burst),
		ReadOnly:    cfg.Server.ReadOnly,
		MetricsPath: metricsPath,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if pgAudit != nil {
		go runAuditCleanup(ctx, pgAudit, cfg.Database)
	}

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("🚀 RiskGate started", "port", cfg.Server.Port, "missing_data", policy.MissingData, "read_only", cfg.Server.ReadOnly)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	auditSvc.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	logger.Info("Server exiting")
}

func runAuditCleanup(ctx context.Context, repo *repository.PostgresAuditRepo, cfg config.DatabaseConfig) {
	if cfg.AuditRetentionDays <= 0 {
		return
	}
	interval := time.Duration(cfg.CleanupIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	retention := time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.Cleanup(ctx, retention); err != nil {
				logger.Error("Audit cleanup failed", "error", err)
			}
		}
	}
}
