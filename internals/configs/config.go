package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig dikumpulkan sekali di main lalu diteruskan ke setiap komponen.
type AppConfig struct {
	Port        string
	CorsOrigins []string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string

	JWTSecret string

	MidtransServerKey string
	MidtransUseProd   bool

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string

	PaymentCurrency string
	GatewayTimeout  time.Duration

	KafkaBrokers           []string
	KafkaNotificationTopic string

	RedisAddr        string
	RedisPassword    string
	StatusPollWindow time.Duration

	SweeperSchedule string
	OrphanTTL       time.Duration

	RunSeeds       bool
	TenantSeedFile string
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env file not found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}
}

// Load membaca seluruh ENV yang dipakai aplikasi. Panggil setelah LoadEnv.
func Load() AppConfig {
	cfg := AppConfig{
		Port:        GetEnv("PORT", "3000"),
		CorsOrigins: splitList(GetEnv("CORS_ALLOW_ORIGINS")),

		DBUser:     GetEnv("DB_USER"),
		DBPassword: GetEnv("DB_PASSWORD"),
		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBName:     GetEnv("DB_NAME"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "require"),

		JWTSecret: GetEnv("JWT_SECRET"),

		MidtransServerKey: GetEnv("MIDTRANS_SERVER_KEY"),
		MidtransUseProd:   GetEnvBool("MIDTRANS_USE_PROD", false),

		StripeSecretKey:     GetEnv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: GetEnv("STRIPE_WEBHOOK_SECRET"),
		StripeCurrency:      strings.ToLower(GetEnv("STRIPE_CURRENCY", "idr")),

		PaymentCurrency: strings.ToUpper(GetEnv("PAYMENT_CURRENCY", "IDR")),
		GatewayTimeout:  GetEnvDuration("GATEWAY_TIMEOUT", 5*time.Second),

		KafkaBrokers:           splitList(GetEnv("KAFKA_BROKERS")),
		KafkaNotificationTopic: GetEnv("KAFKA_NOTIFICATION_TOPIC", "payment.notifications"),

		RedisAddr:        GetEnv("REDIS_ADDR"),
		RedisPassword:    GetEnv("REDIS_PASSWORD"),
		StatusPollWindow: GetEnvDuration("STATUS_POLL_WINDOW", 10*time.Second),

		SweeperSchedule: GetEnv("PAYMENT_SWEEPER_SCHEDULE", "*/15 * * * *"),
		OrphanTTL:       GetEnvDuration("PAYMENT_ORPHAN_TTL", 30*time.Minute),

		RunSeeds:       GetEnvBool("RUN_SEEDS", false),
		TenantSeedFile: GetEnv("TENANT_SEED_FILE"),
	}

	if cfg.JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}
	if cfg.MidtransServerKey == "" {
		log.Println("⚠️ MIDTRANS_SERVER_KEY is not set, midtrans gateway disabled")
	}
	if cfg.StripeSecretKey == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY is not set, stripe gateway disabled")
	} else if cfg.StripeWebhookSecret == "" {
		log.Println("⚠️ STRIPE_WEBHOOK_SECRET is not set, every stripe webhook will be rejected")
	}
	return cfg
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetEnvInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func GetEnvBool(key string, def bool) bool {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// GetEnvDuration menerima format time.ParseDuration ("5s", "30m").
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[CONFIG] invalid duration %s=%q, fallback %s", key, v, def)
		return def
	}
	return d
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
