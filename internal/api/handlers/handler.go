// handler.go — основной обработчик API Call Log Façade.
// Объединяет health и бизнес-обработчики журнала звонков,
// делегируя запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bigkaa/calllog/internal/service"
)

// APIHandler — основной обработчик API Call Log Façade.
type APIHandler struct {
	health *HealthHandler
	calls  *service.CallService
	logger *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	calls *service.CallService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health: health,
		calls:  calls,
		logger: logger.With(slog.String("component", "api_handler")),
	}
}

// Root — GET /. Баннер оригинального фасада.
func (h *APIHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Call logger is running."))
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// queryInt разбирает целочисленный query-параметр.
// Отсутствие или мусор — 0: параметры выборки защитно нормализуются,
// некорректное значение не является ошибкой.
func queryInt(r *http.Request, name string) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return n
}
