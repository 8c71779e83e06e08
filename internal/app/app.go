package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxswap/internal/adapters"
	"fxswap/internal/adapters/cache"
	"fxswap/internal/adapters/httpclient"
	"fxswap/internal/adapters/postgres"
	"fxswap/internal/api"
	"fxswap/internal/catalog"
	"fxswap/internal/config"
	"fxswap/internal/platform/db"
	httpserver "fxswap/internal/platform/http"
	"fxswap/internal/platform/scheduler"
	"fxswap/internal/quote"
	"fxswap/internal/swap"
	"fxswap/internal/swap/handler"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, catalog bootstrap)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Optional catalog store
	var store adapters.CatalogStore
	if appCfg.DbServer.Enabled() {
		pool, dbErr := db.Connect(startupCtx, appCfg.DbServer)
		if dbErr != nil {
			logrus.WithError(dbErr).Error("Error connecting to db")
			return dbErr
		}
		defer pool.Close()
		store = postgres.NewCatalogRepository(pool)
		logrus.Info("✅ Postgres connection successful")
	} else {
		logrus.Info("No database configured, currency catalog will not be persisted")
	}

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External clients
	exchangeClient := httpclient.NewExchangeClient(
		baseHTTPClient,
		appCfg.ExchangeAPI.BaseURL,
		appCfg.ExchangeAPI.AuthToken,
	)
	if appCfg.ExchangeAPI.AuthToken == "" {
		logrus.Warn("Exchange auth token is empty, swaps will likely be rejected")
	}

	// Currency catalog
	currencies := catalog.New()
	refresher := catalog.NewRefresher(currencies, exchangeClient, store)
	if err = refresher.Bootstrap(startupCtx); err != nil {
		logrus.WithError(err).Error("Failed to load supported currencies")
		return err
	}
	logrus.Infof("✅ %d supported currencies loaded", currencies.Len())

	// Quotes
	quoteCache, err := cache.NewQuoteCache(appCfg.QuoteCache.MaxItems)
	if err != nil {
		return err
	}
	defer quoteCache.Close()
	engine := quote.NewEngine(exchangeClient, quote.WithCache(quoteCache, time.Duration(appCfg.QuoteCache.TTLSec)*time.Second))

	// Sessions
	manager := swap.NewManager(currencies, engine, exchangeClient, swap.ManagerConfig{
		Decimals:      appCfg.Session.Decimals,
		Debounce:      appCfg.Session.Debounce(),
		SubmitTimeout: appCfg.Session.SubmitTimeout(),
		IdleTimeout:   appCfg.Session.IdleTimeout(),
	})
	defer manager.Shutdown()

	jobs := scheduler.NewScheduler(
		scheduler.Job{
			Name:     "catalog-refresh",
			Interval: time.Duration(appCfg.Scheduler.CatalogRefreshSec) * time.Second,
			Run:      refresher.Refresh,
		},
		scheduler.Job{
			Name:     "session-reap",
			Interval: time.Duration(appCfg.Scheduler.SessionReapSec) * time.Second,
			Run:      manager.ReapIdle,
		},
	)
	// Ensure scheduler stops before sessions and DB pool close
	defer func() {
		if shutDownErr := jobs.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	// Start scheduler tied to root context
	if startErr := jobs.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	swapHandler := handler.NewSwapHandler(manager, currencies)
	router := api.NewRouter(swapHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
