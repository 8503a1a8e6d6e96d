package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"kostku_backend/internals/configs"
	database "kostku_backend/internals/databases"
	billingService "kostku_backend/internals/features/finance/billings/service"
	"kostku_backend/internals/features/finance/payments/gateway"
	paymentService "kostku_backend/internals/features/finance/payments/service"
	notifService "kostku_backend/internals/features/notifications/service"
	tenantRepository "kostku_backend/internals/features/tenants/tenants/repository"
	middlewares "kostku_backend/internals/middlewares"
	routes "kostku_backend/internals/route"
	routeDetails "kostku_backend/internals/route/details"
	"kostku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// 🧱 recovery → compress/etag → request id + timeout → cors → logger → limiter
	middlewares.SetupMiddlewares(app, cfg.CorsOrigins, cfg.GatewayTimeout+5*time.Second)

	// 🔌 DB connect + pool + warm-up + migrate
	db := database.ConnectDB(cfg)
	database.TunePool(db)
	database.WarmUpQueries(db)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ migrate gagal: %v", err)
	}
	if cfg.RunSeeds {
		seeds.RunAllSeeds(db, cfg.TenantSeedFile)
	}

	// 🧠 Redis (opsional) untuk throttle status polling
	var throttle paymentService.PollThrottle = paymentService.NoopThrottle{}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("⚠️ redis ping gagal (%v), throttle tetap fail-open", err)
		} else {
			log.Println("✅ redis connected")
		}
		cancel()
		throttle = paymentService.NewRedisThrottle(rdb, cfg.StatusPollWindow)
	}

	// 📣 Notifikasi: Kafka bila dikonfigurasi, selain itu log saja
	var notifier notifService.Notifier = notifService.LogNotifier{}
	var kafkaNotifier *notifService.KafkaNotifier
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := notifService.NewSyncProducer(cfg.KafkaBrokers, 5)
		if err != nil {
			log.Printf("⚠️ kafka tidak tersedia (%v), notifikasi hanya di-log", err)
		} else {
			kafkaNotifier = notifService.NewKafkaNotifier(producer, cfg.KafkaNotificationTopic)
			notifier = kafkaNotifier
		}
	}

	// 💳 Gateway adapters
	adapters := []gateway.Adapter{gateway.NewManualAdapter()}
	if cfg.MidtransServerKey != "" {
		adapters = append(adapters, gateway.NewMidtransAdapter(cfg.MidtransServerKey, cfg.MidtransUseProd, cfg.GatewayTimeout))
	}
	if cfg.StripeSecretKey != "" {
		adapters = append(adapters, gateway.NewStripeAdapter(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.StripeCurrency, cfg.GatewayTimeout))
	}
	gateways := gateway.NewRegistry(adapters...)

	// 🧩 Services
	tenants := tenantRepository.NewTenantRepository(db)
	billings := billingService.NewBillingService(db)
	store := paymentService.NewPaymentStore(db, billings)
	payments := paymentService.NewPaymentService(store, gateways, tenants, billings, notifier, throttle, cfg.PaymentCurrency, cfg.OrphanTTL)
	webhooks := paymentService.NewWebhookService(store, gateways, tenants, notifier)

	// ⏱ sweeper setelah DB siap
	stopSweeper := paymentService.StartPaymentSweeperCron(payments, paymentService.SweeperConfig{
		CronSchedule: cfg.SweeperSchedule,
	})

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:        db,
		JWTSecret: cfg.JWTSecret,
		Tenants:   tenants,
		Finance: routeDetails.FinanceServices{
			Billings: billings,
			Payments: payments,
			Webhooks: webhooks,
		},
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: HTTP → cron → kafka → redis → DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	stopSweeper()
	if kafkaNotifier != nil {
		if err := kafkaNotifier.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
