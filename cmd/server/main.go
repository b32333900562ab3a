package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/johndcoy/woocommerce-product-fees/internal/cart"
	"github.com/johndcoy/woocommerce-product-fees/internal/config"
	"github.com/johndcoy/woocommerce-product-fees/internal/database"
	"github.com/johndcoy/woocommerce-product-fees/internal/fee"
	"github.com/johndcoy/woocommerce-product-fees/internal/handler"
	"github.com/johndcoy/woocommerce-product-fees/internal/middleware"
	"github.com/johndcoy/woocommerce-product-fees/internal/repository"
	"github.com/johndcoy/woocommerce-product-fees/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool)
	router.GET("/health", healthHandler.Health)

	handler.SetupSwagger(router)
	setupAPIRoutes(router, pool, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("decimal_separator", cfg.DecimalSeparator).
			Bool("combine_fees", cfg.CombineFees).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, cfg *config.Config) {
	metaRepo := repository.NewMetaRepository(pool)

	registrar := cart.NewRegistrar(cart.Options{
		CombineFees: cfg.CombineFees,
		Taxable:     cfg.FeeTaxable,
		TaxClass:    cfg.FeeTaxClass,
	})

	feeService := service.NewCartFeeService(metaRepo, registrar, service.Options{
		Filters:          fee.Filters{}.Add(service.LogFilter(cfg.DecimalSeparator)),
		DecimalSeparator: cfg.DecimalSeparator,
		Workers:          cfg.BatchWorkers,
	})

	feeHandler := handler.NewFeeHandler(feeService)

	api := router.Group("/api/v1")
	{
		api.POST("/cart/fees", feeHandler.CalculateCart)
		api.POST("/cart/fees/batch", feeHandler.CalculateBatch)
		api.GET("/products/:id/fee", feeHandler.Quote)
	}
}
