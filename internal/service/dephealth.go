// dephealth.go — интеграция с topologymetrics SDK для мониторинга backing store.
//
// Call Log Façade мониторит единственную зависимость — своё хранилище:
//   - Google Sheets API — HTTP checker к discovery endpoint (critical)
//   - PostgreSQL — SQL checker через существующий pgxpool (critical)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
//   - app_dependency_status — категория статуса
//   - app_dependency_status_detail — детальный статус
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
)

// sheetsAPIBaseURL — базовый URL Google Sheets API для HTTP-проверки.
const sheetsAPIBaseURL = "https://sheets.googleapis.com"

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewSheetsDephealthService создаёт мониторинг для Sheets-бэкенда.
// Проверка — HTTP GET к discovery endpoint Sheets API.
//
// Параметры:
//   - serviceID — имя вершины графа текущего приложения (e.g. "calllog")
//   - group — имя группы в метриках (CL_DEPHEALTH_GROUP)
//   - checkInterval — интервал проверки (CL_DEPHEALTH_CHECK_INTERVAL)
//   - isEntry — при true добавляет лейбл isentry=yes (CL_DEPHEALTH_ISENTRY)
func NewSheetsDephealthService(
	serviceID string,
	group string,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
) (*DephealthService, error) {
	depOpts := []dephealth.DependencyOption{
		dephealth.FromURL(sheetsAPIBaseURL),
		dephealth.WithHTTPHealthPath("/$discovery/rest?version=v4"),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	}
	if isEntry {
		depOpts = append(depOpts, dephealth.WithLabel("isentry", "yes"))
	}

	dh, err := dephealth.New(serviceID, group,
		dephealth.WithLogger(logger),
		dephealth.HTTP("google-sheets", depOpts...),
	)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// NewPostgresDephealthService создаёт мониторинг для PostgreSQL-бэкенда.
// Проверка идёт через существующий пул (*sql.DB — адаптер pgxpool через
// stdlib.OpenDBFromPool), что отражает реальное состояние пула соединений.
// pgConnURL используется для лейблов метрик, не для подключения.
func NewPostgresDephealthService(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
) (*DephealthService, error) {
	depOpts := []dephealth.DependencyOption{
		dephealth.FromURL(pgConnURL),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	}
	if isEntry {
		depOpts = append(depOpts, dephealth.WithLabel("isentry", "yes"))
	}

	dh, err := dephealth.New(serviceID, group,
		dephealth.WithLogger(logger),
		dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)), depOpts...),
	)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
