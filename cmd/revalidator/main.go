package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nuvyra_admin/internal/config"
	"nuvyra_admin/internal/logger"
	"nuvyra_admin/internal/queue"

	"go.uber.org/zap"
)

// revalidator 消费目录变更事件，逐个路径调用店面的重新验证接口。
func main() {
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

	if len(cfg.KafkaBrokers) == 0 {
		zap.L().Fatal("KAFKA_BROKERS must be set")
	}
	if cfg.StorefrontRevalidateURL == "" {
		zap.L().Fatal("STOREFRONT_REVALIDATE_URL must be set")
	}

	consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID,
		queue.NewWebhookRevalidator(cfg.StorefrontRevalidateURL, cfg.StorefrontRevalidateSecret))
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Info("revalidator started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group", cfg.KafkaGroupID))
	consumer.Run(ctx)
	zap.L().Info("revalidator stopped")
}
