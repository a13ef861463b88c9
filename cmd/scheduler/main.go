package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/rental-manager/internal/app"
	"github.com/segyhp/rental-manager/internal/config"
	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/robfig/cron/v3"
)

// sweeper recomputes the arrears of every contract.
type sweeper interface {
	SweepArrears(ctx context.Context, asOf time.Time) (*domain.PortfolioArrears, error)
}

func main() {
	log.Println("Starting arrears scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	a, err := app.New(setupCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetSchedulerLocation()))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Schedule tasks
	if err := setupCronJobs(ctx, c, cfg, a.Arrears); err != nil {
		log.Fatalf("Error scheduling arrears sweep: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	stop()
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}

func setupCronJobs(ctx context.Context, c *cron.Cron, cfg *config.Config, arrears sweeper) error {
	_, err := c.AddFunc(cfg.Scheduler.ArrearsSpec, func() {
		log.Println("[ARREARS] running arrears sweep...")
		sweepArrears(ctx, arrears, time.Now().In(cfg.GetSchedulerLocation()))
	})
	if err != nil {
		return err
	}

	log.Printf("Cron jobs scheduled successfully (arrears sweep %q)", cfg.Scheduler.ArrearsSpec)
	return nil
}

func sweepArrears(ctx context.Context, arrears sweeper, now time.Time) {
	start := time.Now()
	result, err := arrears.SweepArrears(ctx, now)
	if err != nil {
		log.Printf("[ARREARS] sweep failed: %v", err)
		return
	}
	for _, e := range result.Errors {
		log.Printf("[ARREARS] sweep: %s", e)
	}
	log.Printf("[ARREARS] sweep done in %s: %d contracts, %d in arrears, %s owed",
		time.Since(start), result.ContractsChecked, result.ContractsInArrears, result.TotalOwed)
}
