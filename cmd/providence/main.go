package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/providence-asso/providence/internal/app"
	"github.com/providence-asso/providence/internal/auth"
	"github.com/providence-asso/providence/internal/beneficiaries"
	"github.com/providence-asso/providence/internal/cases"
	"github.com/providence-asso/providence/internal/funds"
	"github.com/providence-asso/providence/internal/masterdata"
	"github.com/providence-asso/providence/internal/meetings"
	"github.com/providence-asso/providence/internal/platform/cache"
	"github.com/providence-asso/providence/internal/platform/db"
	"github.com/providence-asso/providence/internal/shared"
	"github.com/providence-asso/providence/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	formatter, err := shared.NewFormatter(shared.DisplayConfig{
		Locale:   cfg.DisplayLocale,
		Currency: cfg.DisplayCurrency,
	})
	if err != nil {
		logger.Error("init display formatter", slog.Any("error", err))
		os.Exit(1)
	}

	auditLogger := shared.NewAuditLogger(pool)

	authRepo := auth.NewRepository(pool)
	tokenStore := auth.NewTokenStore(redisClient, cfg.AuthTokenTTL)
	authService := auth.NewService(authRepo, tokenStore)
	authHandler := auth.NewHandler(logger, authService)

	fundsRepo := funds.NewRepository(pool)
	fundsCache := funds.NewCache(redisClient, cfg.FundsCacheTTL)
	fundsService := funds.NewService(fundsRepo, fundsCache)
	fundsHandler := funds.NewHandler(logger, fundsService, formatter)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, auditLogger, logger)
	usersHandler := users.NewHandler(logger, usersService)

	masterdataRepo := masterdata.NewRepository(pool)
	masterdataService := masterdata.NewService(masterdataRepo)
	masterdataHandler := masterdata.NewHandler(logger, masterdataService)

	beneficiariesRepo := beneficiaries.NewRepository(pool)
	beneficiariesService := beneficiaries.NewService(beneficiariesRepo)
	beneficiariesHandler := beneficiaries.NewHandler(logger, beneficiariesService)

	meetingsRepo := meetings.NewRepository(pool)
	meetingsService := meetings.NewService(meetingsRepo, fundsService, auditLogger, logger)
	meetingsHandler := meetings.NewHandler(logger, meetingsService)

	casesRepo := cases.NewRepository(pool)
	casesService := cases.NewService(casesRepo, fundsService, auditLogger, logger)
	casesHandler := cases.NewHandler(logger, casesService)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		Resolver:             authService,
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		MasterDataHandler:    masterdataHandler,
		BeneficiariesHandler: beneficiariesHandler,
		MeetingsHandler:      meetingsHandler,
		FundsHandler:         fundsHandler,
		CasesHandler:         casesHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
