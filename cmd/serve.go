package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-marketplace/app/controller"
	"github.com/vibast-solutions/ms-go-marketplace/app/payment"
	"github.com/vibast-solutions/ms-go-marketplace/app/repository"
	"github.com/vibast-solutions/ms-go-marketplace/app/service"
	"github.com/vibast-solutions/ms-go-marketplace/app/wallet"
	"github.com/vibast-solutions/ms-go-marketplace/app/webhook"
	"github.com/vibast-solutions/ms-go-marketplace/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server for the marketplace service.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
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
	defer db.Close()

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	serviceRepo := repository.NewServiceRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	settlement := payment.NewSimulatedSettlement(cfg.Payment.SettlementDelay)
	dispatcher := webhook.NewDispatcher(cfg.Webhook.DispatchTimeout)
	catalogService := service.NewCatalogService(serviceRepo, subscriptionRepo)
	subscriptionService := service.NewSubscriptionService(serviceRepo, subscriptionRepo, settlement, dispatcher, cfg.Subscriptions)
	walletRegistry := defaultWalletRegistry()

	catalogController := controller.NewCatalogController(catalogService)
	subscriptionController := controller.NewSubscriptionController(subscriptionService)
	walletController := controller.NewWalletController(walletRegistry)

	e := setupHTTPServer(catalogController, subscriptionController, walletController)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

// defaultWalletRegistry lists the wallets subscribers can pay with. The
// connect handshake happens in the browser; the server only advertises
// capability sets.
func defaultWalletRegistry() *wallet.Registry {
	return wallet.NewRegistry(
		wallet.StaticProvider{ProviderName: "Phantom", CanConnect: true, CanSignSend: true},
		wallet.StaticProvider{ProviderName: "Solflare", CanConnect: true, CanSignSend: true},
		wallet.StaticProvider{ProviderName: "Backpack", CanConnect: true, CanSignSend: true},
	)
}

func setupHTTPServer(
	catalogController *controller.CatalogController,
	subscriptionController *controller.SubscriptionController,
	walletController *controller.WalletController,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string {
			return fmt.Sprintf("rest-%s", uuid.New().String())
		},
	}))

	e.GET("/health", catalogController.Health)

	services := e.Group("/services")
	services.POST("", catalogController.PublishService)
	services.GET("", catalogController.ListServices)
	services.GET("/:id", catalogController.GetService)

	e.GET("/publishers/:address/services", catalogController.ListPublisherServices)

	subscriptions := e.Group("/subscriptions")
	subscriptions.POST("", subscriptionController.Subscribe)
	subscriptions.GET("", subscriptionController.ListSubscriptions)
	subscriptions.GET("/:id", subscriptionController.GetSubscription)

	e.GET("/wallets", walletController.ListProviders)

	return e
}
