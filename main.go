package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pilateshub/config"
	"pilateshub/cron"
	"pilateshub/database"
	accountRepo "pilateshub/database/repository/account"
	bookingRepo "pilateshub/database/repository/booking"
	paymentRepo "pilateshub/database/repository/payment"
	scheduleRepo "pilateshub/database/repository/schedule"
	"pilateshub/handlers"
	"pilateshub/middleware"
	"pilateshub/routes"
	"pilateshub/services/account"
	"pilateshub/services/booking"
	"pilateshub/services/calendar"
	"pilateshub/services/payment"
	"pilateshub/services/schedule"
	"pilateshub/services/tasks"
	"pilateshub/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	feeRate, err := payment.ParseFeeRate(config.AppConfig.PlatformFeeRate)
	if err != nil {
		logger.Fatal("main: invalid PLATFORM_FEE_RATE", zap.Error(err))
	}
	logger.Info("main: platform fee rate", zap.String("rate", feeRate.String()))
	if _, err := schedule.LoadLocation(config.AppConfig.DefaultTimezone); err != nil {
		logger.Fatal("main: invalid DEFAULT_TIMEZONE", zap.Error(err))
	}

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	storageService, err := utils.Cloudinary(logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// repositories.
	schedules := scheduleRepo.NewMongoScheduleRepo()
	bookings := bookingRepo.NewMongoBookingRepo()
	payments := paymentRepo.NewMongoPaymentRepo()
	accounts := accountRepo.NewMongoAccountRepo()
	for name, ensure := range map[string]func() error{
		"schedules": schedules.EnsureIndexes,
		"bookings":  bookings.EnsureIndexes,
		"payments":  payments.EnsureIndexes,
		"accounts":  accounts.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	// services.
	gateway := payment.NewStripeGateway(
		config.AppConfig.StripeWebhookSecret,
		config.AppConfig.StripeConnectReturnURL,
		config.AppConfig.StripeConnectRefreshURL,
		logger.Named("stripe"),
	)
	calendarService := calendar.NewDefaultCalendarService(
		schedules,
		bookings,
		calendar.NewRedisFeedCache(utils.GetCacheClient()),
		logger.Named("calendar"),
		config.AppConfig.CalendarHorizonWeeks,
		time.Duration(config.AppConfig.FeedCacheTTLMin)*time.Minute,
		config.AppConfig.CalendarLocation,
	)
	scheduleService := schedule.NewDefaultScheduleService(schedules, calendarService, logger.Named("schedule"), config.AppConfig.DefaultTimezone)
	queueClient := asynq.NewClient(cron.RedisOpt())
	bookingService := booking.NewDefaultBookingService(bookings, schedules, accounts, logger.Named("booking"))
	bookingService.Completions = tasks.NewQueueCompletionScheduler(queueClient, logger.Named("tasks"))
	paymentService := payment.NewDefaultPaymentService(payments, bookings, accounts, gateway, feeRate, config.AppConfig.Currency, logger.Named("payment"))
	accountService := account.NewDefaultAccountService(accounts, gateway, logger.Named("account"), time.Duration(config.AppConfig.TokenTTLHours)*time.Hour)

	handlerBundle := &handlers.HandlerBundle{
		Auth:     handlers.NewAuthHandler(accountService, logger),
		Schedule: handlers.NewScheduleHandler(scheduleService, logger),
		Booking:  handlers.NewBookingHandler(bookingService, logger),
		Payment:  handlers.NewPaymentHandler(paymentService, accountService, logger),
		Calendar: handlers.NewCalendarHandler(calendarService, logger),
		Storage:  handlers.NewStorageHandler(storageService, accountService, logger),
	}

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.Proxies()); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))
	routes.RegisterRoutes(router, handlerBundle, config.AppConfig.Origins())

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, time.Minute, utils.GetCacheClient(), database.MongoClient)
	worker := cron.InitCompletionWorker(bookingService, logger.Named("worker"))

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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
	stopMonitor()
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}
	if err := queueClient.Close(); err != nil {
		logger.Warn("main: failed to close task queue client", zap.Error(err))
	}
	if err := utils.GetCacheClient().Close(); err != nil {
		logger.Warn("main: failed to close Redis client", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
