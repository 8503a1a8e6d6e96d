package database

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"kostku_backend/internals/configs"
	billingModel "kostku_backend/internals/features/finance/billings/model"
	paymentModel "kostku_backend/internals/features/finance/payments/model"
	tenantModel "kostku_backend/internals/features/tenants/tenants/model"
)

func ConnectDB(cfg configs.AppConfig) *gorm.DB {
	log.Println("🔌 Connecting to PostgreSQL...")

	// statement_timeout selaras dengan timeout request di main.go
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=kostku&options=%s",
		url.QueryEscape(cfg.DBUser),
		url.QueryEscape(cfg.DBPassword),
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
		url.QueryEscape("-c statement_timeout=3000"),
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(gormLogger.Warn),
	})
	if err != nil {
		log.Fatalf("❌ DB connect failed: %v", err)
	}
	log.Println("✅ DB connected.")
	return db
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		sqlDB, err := db.DB()
		if err != nil {
			log.Printf("warm-up err: %v", err)
			return
		}
		if err := sqlDB.Ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

// Migrate menyiapkan tabel inti. Urutan mengikuti relasi (tenant → billing → payment).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&tenantModel.Tenant{},
		&billingModel.Billing{},
		&paymentModel.Payment{},
		&paymentModel.PaymentGatewayEvent{},
	)
}
