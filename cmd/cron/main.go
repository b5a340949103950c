package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"escribanos-be/internal/config"
	"escribanos-be/internal/pkg/logger"
	"escribanos-be/internal/repository/unitofwork"
	"escribanos-be/internal/service"
	"escribanos-be/pkg/database"
	pkgNats "escribanos-be/pkg/nats"

	"github.com/robfig/cron/v3"
)

// Standalone scheduler for deployments without an external cron hitting the
// HTTP endpoint. Runs the same subscription sweep the REST API exposes.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	sweepService := service.NewSweepService(uowFactory, natsPub, sysLogger)

	cronScheduler := cron.New(cron.WithSeconds())

	// Subscription sweep at 03:00 every day
	_, err = cronScheduler.AddFunc("0 0 3 * * *", func() {
		log.Println("[CRON] Starting subscription sweep...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		summary, err := sweepService.VerifySubscriptions(ctx)
		if err != nil {
			log.Printf("[CRON] Error running subscription sweep: %v", err)
			return
		}
		log.Printf("[CRON] Sweep finished: pendientes=%d activadas=%d vencidas=%d avisos=%d reparadas=%d",
			summary.Pendientes, summary.Activadas, summary.Vencidas, summary.AvisosVencimiento, summary.Reparadas)
	})
	if err != nil {
		log.Fatalf("Failed to add sweep job: %v", err)
	}

	// Second pass at 10:00 so expiry warnings land during business hours.
	// Warning notifications are de-duplicated per day, so the re-run is safe.
	_, err = cronScheduler.AddFunc("0 0 10 * * *", func() {
		log.Println("[CRON] Starting expiry warning pass...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		summary, err := sweepService.VerifySubscriptions(ctx)
		if err != nil {
			log.Printf("[CRON] Error running expiry warning pass: %v", err)
			return
		}
		log.Printf("[CRON] Expiry warning pass finished: avisos=%d", summary.AvisosVencimiento)
	})
	if err != nil {
		log.Fatalf("Failed to add expiry warning job: %v", err)
	}

	cronScheduler.Start()
	log.Println("========================================")
	log.Println("Cron jobs started successfully")
	log.Println("Scheduled jobs:")
	log.Println("  - Subscription sweep: Every day at 03:00")
	log.Println("  - Expiry warning pass: Every day at 10:00")
	log.Println("========================================")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")

	stopCtx := cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		log.Println("Cron jobs stopped gracefully")
	case <-time.After(5 * time.Second):
		log.Println("Cron jobs forced to stop after timeout")
	}
}
