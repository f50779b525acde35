// File: teleka/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teleka/config"
	"teleka/cron"
	"teleka/database"
	accountRepo "teleka/database/repository/account"
	"teleka/handlers"
	"teleka/middleware"
	"teleka/models"
	"teleka/routes"
	"teleka/services/account"
	"teleka/services/autocomplete"
	"teleka/services/notification"
	"teleka/services/places"
	"teleka/services/pricing"
	"teleka/services/tasks"
	"teleka/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Optional backends.
	if err := utils.InitCache(); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	if err := utils.FirebaseInit(rootCtx); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	defaultFares := models.FareSettings{BaseFare: cfg.PriceMinFare, Commission: 0}
	var repo accountRepo.AccountRepository
	switch cfg.StorageDriver {
	case "mongo":
		if err := database.InitDB(logger); err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		repo = accountRepo.NewMongoAccountRepo(database.Database(), defaultFares, logger)
	default:
		logger.Warn("main: using in-memory account storage, data is lost on restart")
		repo = accountRepo.NewMemoryAccountRepo(defaultFares)
	}
	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), database.MongoClient)

	// Push delivery: FCM when configured, the log otherwise; queued through
	// asynq when Redis is available.
	var pushSvc notification.NotificationService = notification.NewLogNotificationService(logger)
	if utils.FCMClient != nil {
		fcm, err := notification.NewFCMNotificationService(utils.FCMClient, cfg.AdminPushTopic, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		pushSvc = fcm
	}
	var notifier account.AdminNotifier = pushSvc
	var pushWorker *cron.PushWorker
	var queueClient *asynq.Client
	if utils.RedisEnabled() {
		queueClient = asynq.NewClient(utils.QueueRedisOpt())
		notifier = tasks.NewDispatcher(queueClient, logger)
		pushWorker = cron.NewPushWorker(utils.QueueRedisOpt(), pushSvc, logger)
		pushWorker.Start()
	}

	// Places and pricing.
	google := places.NewGoogleClient(places.GoogleConfig{
		APIKey:  cfg.GoogleAPIKey,
		BaseURL: cfg.GoogleMapsBaseURL,
		Country: cfg.PlacesCountry,
		RadiusM: cfg.NearbyRadiusM,
		Timeout: cfg.UpstreamTimeout,
	}, logger)
	if cfg.GoogleAPIKey == "" {
		logger.Warn("main: GOOGLE_API_KEY is not set, places endpoints will fail")
	}
	nominatim := places.NewNominatimClient(places.NominatimConfig{
		BaseURL: cfg.NominatimBaseURL,
		Country: cfg.PlacesCountry,
		Timeout: cfg.UpstreamTimeout,
	}, logger)

	recentStore := newRecentStoreFunc()
	pricingService := pricing.NewPricingService(google, pricing.RatesFromConfig(cfg), logger)

	accountService := account.NewAccountService(repo, notifier, account.AdminCredentials{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, logger)

	handlerBundle := &handlers.HandlerBundle{
		Places:     handlers.NewPlacesHandler(google, nominatim, recentStore, logger),
		Pricing:    handlers.NewPricingHandler(pricingService),
		Account:    handlers.NewAccountHandler(accountService),
		Admin:      handlers.NewAdminHandler(accountService),
		AdminToken: cfg.AdminToken,
		StaticDir:  cfg.StaticDir,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stop()

	if pushWorker != nil {
		pushWorker.Shutdown()
	}
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			logger.Warn("main: closing queue client", zap.Error(err))
		}
	}
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: closing MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// newRecentStoreFunc keeps per-client recent places in Redis when it is
// configured and in process memory otherwise.
func newRecentStoreFunc() handlers.RecentStoreFunc {
	if client := utils.GetCacheClient(); client != nil {
		return func(clientKey string) autocomplete.Storage {
			return autocomplete.NewRedisStorage(client, "teleka:recent:"+clientKey+":", autocomplete.RecentTTL)
		}
	}
	mem := autocomplete.NewMemoryStorage()
	return func(clientKey string) autocomplete.Storage {
		return mem.Scoped(clientKey + ":")
	}
}
