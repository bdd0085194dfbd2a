package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/esportdb/esport-manager/config"
	"github.com/esportdb/esport-manager/db"
	"github.com/esportdb/esport-manager/exchange"
	"github.com/esportdb/esport-manager/fixtures"
	"github.com/esportdb/esport-manager/handlers"
	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/repositories/memory"
	api "github.com/esportdb/esport-manager/routes"
	"github.com/esportdb/esport-manager/services"
	"github.com/esportdb/esport-manager/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Выбор хранилища: постгрес при заданном DATABASE_URL, иначе
	// встроенное in-memory хранилище.
	var (
		txRunner       repositories.TxRunner
		userRepo       repositories.UserRepository
		teamRepo       repositories.TeamRepository
		playerRepo     repositories.PlayerRepository
		tournamentRepo repositories.TournamentRepository
		matchRepo      repositories.MatchRepository
	)
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}()
		if err := db.Migrate(context.Background(), dbConn); err != nil {
			logger.Error("failed to apply database schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database connection established")

		txRunner = repositories.NewSQLTxRunner(dbConn)
		userRepo = repositories.NewPostgresUserRepository(dbConn)
		teamRepo = repositories.NewPostgresTeamRepository(dbConn)
		playerRepo = repositories.NewPostgresPlayerRepository(dbConn)
		tournamentRepo = repositories.NewPostgresTournamentRepository(dbConn)
		matchRepo = repositories.NewPostgresMatchRepository(dbConn)
	} else {
		store := memory.NewStore()
		txRunner = store
		userRepo = store.Users()
		teamRepo = store.Teams()
		playerRepo = store.Players()
		tournamentRepo = store.Tournaments()
		matchRepo = store.Matches()
		logger.Info("running on in-memory store")
	}

	// Инициализация сервисов
	userService := services.NewUserService(txRunner, userRepo)
	teamService := services.NewTeamService(txRunner, teamRepo, playerRepo, matchRepo)
	playerService := services.NewPlayerService(txRunner, playerRepo, teamRepo)
	tournamentService := services.NewTournamentService(txRunner, tournamentRepo, matchRepo, logger)
	matchService := services.NewMatchService(txRunner, matchRepo, tournamentRepo, teamRepo)
	searchService := services.NewSearchService(teamRepo, playerRepo, tournamentRepo, matchRepo)
	logger.Info("services initialized")

	// Демо-данные по требованию: `go run ./cmd seed`
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		err := fixtures.Seed(context.Background(), fixtures.Services{
			Users:       userService,
			Teams:       teamService,
			Players:     playerService,
			Tournaments: tournamentService,
			Matches:     matchService,
		}, logger)
		if err != nil {
			logger.Error("failed to seed demo data", slog.Any("error", err))
			os.Exit(1)
		}
		if cfg.DatabaseURL != "" {
			// Постгрес хранит данные сам, процесс можно завершать.
			return
		}
	}

	// Кодек обмена данными
	exporter := exchange.NewExporter(userService, teamService, playerService, tournamentService, matchService)
	importer := exchange.NewImporter(txRunner, userService, teamService, playerService, tournamentService, matchService)

	// Выгрузка снапшотов в Cloudflare R2, если настроена.
	var uploader storage.SnapshotUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	// Инициализация обработчиков HTTP
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService, searchService)
	playerHandler := handlers.NewPlayerHandler(playerService, searchService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, searchService)
	matchHandler := handlers.NewMatchHandler(matchService, searchService)
	exchangeHandler := handlers.NewExchangeHandler(exporter, importer, uploader, cfg.ExportPath, cfg.ImportPath, logger)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, userHandler, teamHandler, playerHandler, tournamentHandler, matchHandler, exchangeHandler)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
