// main.go — точка входа Call Log Façade.
// Сборка зависимостей: config, logger, backing store (Sheets или PostgreSQL),
// сервис журнала, HTTP-сервер с middleware, опциональный dephealth-мониторинг.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/calllog/internal/api/handlers"
	"github.com/bigkaa/calllog/internal/api/middleware"
	"github.com/bigkaa/calllog/internal/config"
	"github.com/bigkaa/calllog/internal/rowstore"
	"github.com/bigkaa/calllog/internal/rowstore/postgres"
	"github.com/bigkaa/calllog/internal/rowstore/sheets"
	"github.com/bigkaa/calllog/internal/server"
	"github.com/bigkaa/calllog/internal/service"
)

func main() {
	ctx := context.Background()

	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Call Log Façade запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("store_backend", cfg.StoreBackend),
		slog.String("auth_mode", cfg.AuthMode),
	)

	// 3. Backing store: Sheets или PostgreSQL за общим интерфейсом
	var (
		store        rowstore.Store
		storeChecker handlers.ReadinessChecker
		dephealthSvc *service.DephealthService
	)

	switch cfg.StoreBackend {
	case config.StoreBackendSheets:
		sheetsStore, err := sheets.New(ctx, cfg.SpreadsheetID, cfg.SheetName, sheets.Credentials{
			ClientEmail:     cfg.GoogleClientEmail,
			PrivateKey:      cfg.GooglePrivateKey,
			CredentialsFile: cfg.GoogleCredentialsFile,
		}, cfg.StoreTimeout, logger)
		if err != nil {
			log.Fatalf("Ошибка инициализации Sheets-хранилища: %v", err)
		}
		store = sheetsStore
		storeChecker = sheetsStore

		if cfg.DephealthEnabled {
			dephealthSvc, err = service.NewSheetsDephealthService(
				"calllog", cfg.DephealthGroup,
				cfg.DephealthCheckInterval, cfg.DephealthIsEntry, logger,
			)
			if err != nil {
				log.Fatalf("Ошибка инициализации dephealth: %v", err)
			}
		}

	case config.StoreBackendPostgres:
		pgStore, err := postgres.New(ctx, cfg.PostgresURL, cfg.StoreTimeout, logger)
		if err != nil {
			log.Fatalf("Ошибка инициализации PostgreSQL-хранилища: %v", err)
		}
		defer pgStore.Close()
		store = pgStore
		storeChecker = pgStore

		if cfg.DephealthEnabled {
			db := stdlib.OpenDBFromPool(pgStore.Pool())
			dephealthSvc, err = service.NewPostgresDephealthService(
				"calllog", cfg.DephealthGroup, db, cfg.PostgresURL,
				cfg.DephealthCheckInterval, cfg.DephealthIsEntry, logger,
			)
			if err != nil {
				log.Fatalf("Ошибка инициализации dephealth: %v", err)
			}
		}
	}

	// 4. Сервис журнала звонков
	callService := service.NewCallService(store, cfg.DefaultPageSize, logger)

	// 5. Handlers
	healthHandler := handlers.NewHealthHandler(storeChecker)
	apiHandler := handlers.NewAPIHandler(healthHandler, callService, logger)

	// 6. Middleware: metrics, logging, аутентификация (health/metrics публичны)
	middlewares := []func(http.Handler) http.Handler{
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	}

	switch cfg.AuthMode {
	case config.AuthModeToken:
		middlewares = append(middlewares, server.AuthWithExclusions(
			middleware.TokenAuth(cfg.APIToken, logger),
			"/health/", "/metrics",
		))
	case config.AuthModeJWT:
		jwtAuth, err := middleware.NewJWTAuth(
			cfg.JWKSURL, cfg.JWTIssuer,
			cfg.JWKSClientTimeout, cfg.JWKSRefreshInterval, cfg.JWTLeeway,
			logger,
		)
		if err != nil {
			log.Fatalf("Ошибка инициализации JWT middleware: %v", err)
		}
		middlewares = append(middlewares, server.AuthWithExclusions(
			jwtAuth.Middleware(),
			"/health/", "/metrics",
		))
	}

	// 7. Dephealth-мониторинг (опционально)
	if dephealthSvc != nil {
		if err := dephealthSvc.Start(ctx); err != nil {
			log.Fatalf("Ошибка запуска dephealth: %v", err)
		}
		defer dephealthSvc.Stop()
	}

	// 8. Запуск HTTP-сервера (блокирующий вызов с graceful shutdown)
	srv := server.New(cfg, logger, apiHandler, middlewares...)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		log.Fatalf("Сервер завершился с ошибкой: %v", err)
	}

	logger.Info("Call Log Façade остановлен")
}
