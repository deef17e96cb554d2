package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"bridge_quoter/internal/app/port"
	"bridge_quoter/internal/app/service"
	"bridge_quoter/internal/client"
	"bridge_quoter/internal/infrastructure/configloader"
	"bridge_quoter/internal/infrastructure/restapi"
	"bridge_quoter/internal/infrastructure/tokenloader"
	"bridge_quoter/internal/pkg/logger"
	"bridge_quoter/internal/pkg/metrics"
	"bridge_quoter/internal/pkg/utils"
)

func main() {
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// route slog-based libraries through the same zap core
	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	priceFeedClient := client.NewPriceFeedClient(
		cfg.PriceFeed.BaseURL,
		cfg.PriceFeed.APIKey,
		cfg.PriceFeed.VsCurrency,
		time.Duration(cfg.PriceFeed.RequestTimeoutMillis)*time.Millisecond,
		time.Duration(cfg.PriceFeed.CacheTTLMinutes)*time.Minute,
		cfg.PriceFeed.RequestsPerSecond,
		cfg.PriceFeed.MaxConcurrentPrefetch,
		zapLogger,
	)
	zapLogger.Info("Price feed client initialized", zap.String("baseURL", cfg.PriceFeed.BaseURL))

	relayerFeeClient := client.NewRelayerFeeClient(
		cfg.Relayer.BaseURL,
		time.Duration(cfg.Relayer.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	zapLogger.Info("Relayer fee client initialized", zap.String("baseURL", cfg.Relayer.BaseURL))

	tokens, err := tokenloader.Load(cfg.TokenCatalogPath, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to load token catalog", zap.Error(err))
	}

	// warm the price cache in the background
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := priceFeedClient.PrefetchPrices(ctx, tokens); err != nil {
			zapLogger.Error("Failed to prefetch token prices", zap.Error(err))
		}
	}()

	sessionTimeout := time.Duration(cfg.Session.RequestTimeoutMillis) * time.Millisecond
	sessionStore := service.NewSessionStore(
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		func() port.QuoteSession {
			return service.NewQuoteSession(priceFeedClient, relayerFeeClient, sessionTimeout, zapLogger)
		},
		zapLogger,
	)
	zapLogger.Info("Session store initialized", zap.Int("ttlMinutes", cfg.Session.TTLMinutes))

	sessionHandler := restapi.NewSessionHandler(sessionStore, tokens, cfg, zapLogger)
	router := restapi.SetupRouter(sessionHandler, zapLogger)

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
