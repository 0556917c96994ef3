package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nuvyra_admin/internal/auth"
	"nuvyra_admin/internal/config"
	"nuvyra_admin/internal/imagehost"
	"nuvyra_admin/internal/integrity"
	"nuvyra_admin/internal/logger"
	"nuvyra_admin/internal/middleware"
	"nuvyra_admin/internal/queue"
	"nuvyra_admin/internal/repository"
	"nuvyra_admin/internal/router"
	"nuvyra_admin/internal/service"
	rediskey "nuvyra_admin/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 配置与日志
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	syncLog, err := logger.Init(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer syncLog()

	// 2. 数据库（自动建表）+ 站点配置行
	db, err := repository.Open(cfg)
	if err != nil {
		zap.L().Fatal("database", zap.Error(err))
	}
	settingsRepo := repository.NewSettingsRepository(db)

	// 3. Redis：缓存、会话吊销、登录限流
	rdb, err := rediskey.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		zap.L().Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// 4. Kafka：未配置 broker 时不发布事件
	var publisher queue.Publisher = queue.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
	} else {
		zap.L().Info("KAFKA_BROKERS not set, storefront revalidation events disabled")
	}

	images := imagehost.NewClient(cfg.ImgurClientID, cfg.ImgurEndpoint, cfg.ImageRehostPrefix)
	productRepo := repository.NewProductRepository(db)
	products := service.NewProductService(productRepo, rediskey.NewProductCache(rdb, cfg.ProductCacheTTL), publisher, images)
	settings := service.NewSettingsService(settingsRepo, publisher)
	authSvc := service.NewAuthService(repository.NewAdminRepository(db), auth.NewSigner(cfg.SessionSecret, cfg.SessionTTL), rdb)

	var corrector *integrity.Corrector
	if cfg.AIIntegrityEnabled {
		corrector = integrity.NewCorrector(integrity.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEndpoint))
	}
	integritySvc := service.NewIntegrityService(cfg.AIIntegrityEnabled, corrector, productRepo, products)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := settings.Ensure(ctx); err != nil {
		zap.L().Fatal("settings", zap.Error(err))
	}

	// 5. HTTP
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	router.Setup(r, router.Deps{
		Products:  products,
		Settings:  settings,
		Auth:      authSvc,
		Integrity: integritySvc,
		Images:    images,
		Redis:     rdb,
	}, cfg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.L().Info("admin server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("http shutdown", zap.Error(err))
	}
}
