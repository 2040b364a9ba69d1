package cmd

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-marketplace/app/payment"
	"github.com/vibast-solutions/ms-go-marketplace/app/repository"
	"github.com/vibast-solutions/ms-go-marketplace/app/service"
	"github.com/vibast-solutions/ms-go-marketplace/app/webhook"
	"github.com/vibast-solutions/ms-go-marketplace/config"

	_ "github.com/go-sql-driver/mysql"
)

var reconcileWorker bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Re-drive subscriptions stuck in pending or paid",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, subscriptionService, cleanup := mustCreateSubscriptionService()
		defer cleanup()

		if reconcileWorker {
			runWorker("reconcile", cfg.Jobs.ReconcileInterval, subscriptionService)
			return
		}

		runJob("reconcile", func() error {
			return subscriptionService.RunReconcileBatch(context.Background())
		})
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().BoolVar(&reconcileWorker, "worker", false, "Run continuously using configured interval")
}

func runWorker(name string, interval time.Duration, subscriptionService *service.SubscriptionService) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return subscriptionService.RunReconcileBatch(ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return subscriptionService.RunReconcileBatch(ctx) })
		}
	}
}

func mustCreateSubscriptionService() (*config.Config, *service.SubscriptionService, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	serviceRepo := repository.NewServiceRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	subscriptionService := service.NewSubscriptionService(
		serviceRepo,
		subscriptionRepo,
		payment.NewSimulatedSettlement(cfg.Payment.SettlementDelay),
		webhook.NewDispatcher(cfg.Webhook.DispatchTimeout),
		cfg.Subscriptions,
	)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, subscriptionService, cleanup
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
