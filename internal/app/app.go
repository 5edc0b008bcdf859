package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fxsync/internal/adapters"
	"fxsync/internal/adapters/cache"
	"fxsync/internal/adapters/events"
	"fxsync/internal/adapters/httpclient"
	"fxsync/internal/adapters/lock"
	"fxsync/internal/adapters/postgres"
	"fxsync/internal/api"
	"fxsync/internal/config"
	"fxsync/internal/metrics"
	"fxsync/internal/platform/db"
	httpserver "fxsync/internal/platform/http"
	"fxsync/internal/quotation"
	quotationhandler "fxsync/internal/quotation/handler"
	"fxsync/internal/rate"
	ratehandler "fxsync/internal/rate/handler"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const providerCacheItems = 256

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

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	if appCfg.DbServer.AutoMigrate {
		if err = db.Migrate(startupCtx, pool); err != nil {
			logrus.WithError(err).Error("Failed to apply migrations")
			return err
		}
		logrus.Info("✅ Migrations applied")
	}

	// Rate provider client with a short lived response cache
	if appCfg.ExchangeRateAPI.APIKey == "" {
		return fmt.Errorf("exchange rate api key is required")
	}
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	providerCache, err := cache.NewProviderRatesCache(providerCacheItems, appCfg.ExchangeRateAPI.CacheTTL)
	if err != nil {
		return err
	}
	defer providerCache.Close()
	rateClient := httpclient.NewExchangeRateClient(
		&http.Client{Timeout: httpTimeout},
		fmt.Sprintf("%s/%s/latest", strings.TrimSuffix(appCfg.ExchangeRateAPI.BaseURL, "/"), appCfg.ExchangeRateAPI.APIKey),
		providerCache,
	)

	// Rate events
	var publisher adapters.RateEventPublisher = events.NopPublisher{}
	if len(appCfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewRatePublisher(appCfg.Kafka.Brokers, appCfg.Kafka.Topic)
		defer func() {
			if closeErr := kafkaPublisher.Close(); closeErr != nil {
				logrus.WithError(closeErr).Warn("Kafka writer close error")
			}
		}()
		publisher = kafkaPublisher
		logrus.Infof("✅ Publishing rate events to %s", appCfg.Kafka.Topic)
	}

	// Recalculation lock
	var locker adapters.Locker = lock.NewLocalLocker()
	if appCfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     appCfg.Redis.Addr,
			Password: appCfg.Redis.Password,
			DB:       appCfg.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()
		if pingErr := redisClient.Ping(startupCtx).Err(); pingErr != nil {
			logrus.WithError(pingErr).Error("Error connecting to redis")
			return pingErr
		}
		locker = lock.NewRedisLocker(redislock.New(redisClient), appCfg.Redis.LockTTL)
		logrus.Info("✅ Redis connection successful")
	}

	syncMetrics := metrics.NewSyncMetrics()

	// Repositories
	rateStore := postgres.NewRateStore(pool)
	quotationRepo := postgres.NewQuotationRepository(pool)

	// Services
	basket := rate.NewBasket(appCfg.Basket.Base, appCfg.Basket.Codes)
	rateService := rate.NewService(rateStore, rateClient, publisher, basket, syncMetrics)
	quotationService := quotation.NewService(quotationRepo, rateService, locker, syncMetrics)
	scheduler := rate.NewScheduler(rateService, appCfg.Scheduler.Interval)
	// Ensure scheduler stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	// Start scheduler tied to root context
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	lim, err := api.NewLimiter(appCfg.RateLimit.Rate)
	if err != nil {
		return fmt.Errorf("invalid rate_limit.rate %q: %w", appCfg.RateLimit.Rate, err)
	}
	router := api.NewRouter(
		ratehandler.NewRateHandler(rateService, scheduler),
		quotationhandler.NewQuotationHandler(quotationService),
		syncMetrics.Handler(),
		lim,
	)

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
