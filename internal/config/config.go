package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 聚合运行时配置，尽量通过环境变量注入，避免硬编码。
type AppConfig struct {
	AppEnv   string
	HTTPAddr string

	// DBDriver 取值 postgres（Supabase）或 sqlite（本地开发）
	DBDriver    string
	DatabaseURL string
	DBPath      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka 为空时不发送重新验证事件
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// 会话与登录保护
	SessionSecret   string
	SessionTTL      time.Duration
	SessionSecure   bool
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// 列表/详情缓存
	ProductCacheTTL time.Duration

	// 图床（Imgur）
	ImgurClientID     string
	ImgurEndpoint     string
	ImageRehostPrefix string

	// AI 数据完整性检查（默认关闭）
	AIIntegrityEnabled bool
	GeminiAPIKey       string
	GeminiModel        string
	GeminiEndpoint     string

	// 店面按需重新验证（cmd/revalidator 使用）
	StorefrontRevalidateURL    string
	StorefrontRevalidateSecret string
}

// LoadEnv 在 APP_ENV=local 时加载 .env.local，其余环境只读系统变量。
func LoadEnv() error {
	if strings.TrimSpace(os.Getenv("APP_ENV")) != "local" {
		return nil
	}
	if err := godotenv.Load(".env.local"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env.local: %w", err)
	}
	return nil
}

// Load 读取并校验配置，缺失时使用默认值。
func Load() (AppConfig, error) {
	cfg := AppConfig{
		AppEnv:                     getEnv("APP_ENV", "development"),
		HTTPAddr:                   getEnv("HTTP_ADDR", ":8080"),
		DBDriver:                   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:                getEnv("DATABASE_URL", ""),
		DBPath:                     getEnv("DB_PATH", "nuvyra_admin.db"),
		RedisAddr:                  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
		RedisDB:                    0,
		KafkaBrokers:               splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:                 getEnv("KAFKA_TOPIC", "nuvyra.catalog.events"),
		KafkaGroupID:               getEnv("KAFKA_GROUP_ID", "nuvyra-storefront-revalidator"),
		SessionSecret:              getEnv("SESSION_SECRET", ""),
		SessionTTL:                 12 * time.Hour,
		LoginRateLimit:             10,
		LoginRateWindow:            time.Minute,
		ProductCacheTTL:            5 * time.Minute,
		ImgurClientID:              getEnv("IMGUR_CLIENT_ID", ""),
		ImgurEndpoint:              getEnv("IMGUR_ENDPOINT", "https://api.imgur.com/3/image"),
		ImageRehostPrefix:          getEnv("IMAGE_REHOST_PREFIX", "https://jmdy.shop"),
		GeminiAPIKey:               getEnv("GEMINI_API_KEY", ""),
		GeminiModel:                getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiEndpoint:             getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		StorefrontRevalidateURL:    getEnv("STOREFRONT_REVALIDATE_URL", ""),
		StorefrontRevalidateSecret: getEnv("STOREFRONT_REVALIDATE_SECRET", ""),
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	ttlHour, err := getEnvInt("SESSION_TTL_HOUR", int(cfg.SessionTTL.Hours()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid SESSION_TTL_HOUR: %w", err)
	}
	if ttlHour <= 0 {
		return AppConfig{}, fmt.Errorf("SESSION_TTL_HOUR must be > 0")
	}
	cfg.SessionTTL = time.Duration(ttlHour) * time.Hour

	rateLimit, err := getEnvInt("LOGIN_RATE_LIMIT", cfg.LoginRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("LOGIN_RATE_LIMIT must be > 0")
	}
	cfg.LoginRateLimit = rateLimit

	rateWindowSec, err := getEnvInt("LOGIN_RATE_WINDOW_SEC", int(cfg.LoginRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid LOGIN_RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("LOGIN_RATE_WINDOW_SEC must be > 0")
	}
	cfg.LoginRateWindow = time.Duration(rateWindowSec) * time.Second

	cacheTTLSec, err := getEnvInt("PRODUCT_CACHE_TTL_SEC", int(cfg.ProductCacheTTL.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid PRODUCT_CACHE_TTL_SEC: %w", err)
	}
	if cacheTTLSec <= 0 {
		return AppConfig{}, fmt.Errorf("PRODUCT_CACHE_TTL_SEC must be > 0")
	}
	cfg.ProductCacheTTL = time.Duration(cacheTTLSec) * time.Second

	if cfg.SessionSecure, err = getEnvBool("SESSION_SECURE", cfg.AppEnv == "production"); err != nil {
		return AppConfig{}, fmt.Errorf("invalid SESSION_SECURE: %w", err)
	}
	if cfg.AIIntegrityEnabled, err = getEnvBool("AI_INTEGRITY_ENABLED", false); err != nil {
		return AppConfig{}, fmt.Errorf("invalid AI_INTEGRITY_ENABLED: %w", err)
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return AppConfig{}, fmt.Errorf("DATABASE_URL must not be empty when DB_DRIVER=postgres")
		}
	case "sqlite":
		if cfg.DBPath == "" {
			return AppConfig{}, fmt.Errorf("DB_PATH must not be empty when DB_DRIVER=sqlite")
		}
	default:
		return AppConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if len(cfg.SessionSecret) < 32 {
		return AppConfig{}, fmt.Errorf("SESSION_SECRET must be at least 32 characters")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_TOPIC must not be empty")
	}
	if cfg.AIIntegrityEnabled && cfg.GeminiAPIKey == "" {
		return AppConfig{}, fmt.Errorf("GEMINI_API_KEY is required when AI_INTEGRITY_ENABLED=true")
	}

	return cfg, nil
}

// IsDevelopment 本地与开发环境使用可读日志。
func (c AppConfig) IsDevelopment() bool {
	return c.AppEnv == "local" || c.AppEnv == "development"
}

// getEnv 读取字符串环境变量，若为空则返回默认值。
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt 读取整数环境变量，若为空则返回默认值。
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

// splitCSV 将逗号分隔字符串解析为字符串切片。
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
