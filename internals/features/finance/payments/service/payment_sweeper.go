package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type SweeperConfig struct {
	CronSchedule string
	RunTimeout   time.Duration
}

// ── ENTRYPOINT: panggil dari main.go; stop() dipanggil saat shutdown
func StartPaymentSweeperCron(svc *PaymentService, cfg SweeperConfig) (stop func()) {
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "*/15 * * * *"
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 4 * time.Minute
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
		defer cancel()
		RunPaymentSweep(ctx, svc, time.Now().UTC())
	})
	if err != nil {
		log.Fatalf("[SWEEPER] add cron gagal: %v", err)
	}
	log.Printf("[SWEEPER] started schedule=%q orphan_ttl=%s", cfg.CronSchedule, svc.OrphanTTL)
	c.Start()

	return func() {
		<-c.Stop().Done()
	}
}

// RunPaymentSweep: 1) orphan gateway 2) overdue.
func RunPaymentSweep(ctx context.Context, svc *PaymentService, now time.Time) {
	if n, err := svc.ReconcileOrphans(ctx, now); err != nil {
		log.Printf("[SWEEPER] orphan error: %v", err)
	} else if n > 0 {
		log.Printf("[SWEEPER] orphan resolved=%d", n)
	}

	if n, err := svc.SweepOverdue(ctx, now); err != nil {
		log.Printf("[SWEEPER] overdue error: %v", err)
	} else if n > 0 {
		log.Printf("[SWEEPER] overdue marked=%d", n)
	}
}
