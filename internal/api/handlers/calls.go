// calls.go — обработчики журнала звонков.
// POST /api/v1/calls (и /log-call — путь оригинального фасада) — создание записи.
// GET  /api/v1/calls — выборка с поиском, фильтрами, сортировкой и пагинацией.
// PATCH /api/v1/calls/{id} — частичное обновление по идентификатору.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/calllog/internal/api/errors"
	"github.com/bigkaa/calllog/internal/domain/model"
	"github.com/bigkaa/calllog/internal/service"
)

// createResponse — ответ на создание записи.
type createResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// listResponse — ответ выборки журнала.
type listResponse struct {
	Success bool                 `json:"success"`
	Page    int                  `json:"page"`
	Total   int                  `json:"total"`
	Data    []model.CallLogEntry `json:"data"`
}

// updateResponse — ответ на обновление записи.
type updateResponse struct {
	Success bool `json:"success"`
}

// CreateCall — реализация POST /api/v1/calls и POST /log-call.
// Все поля тела опциональны; отсутствующий id генерируется на стороне сервиса.
func (h *APIHandler) CreateCall(w http.ResponseWriter, r *http.Request) {
	var entry model.CallLogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	id, err := h.calls.Create(r.Context(), entry)
	if err != nil {
		h.logger.Error("Ошибка создания записи журнала",
			slog.String("error", err.Error()),
		)
		// Сбой backing store отдаётся вызывающему как есть
		apierrors.InternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, createResponse{Success: true, ID: id})
}

// ListCalls — реализация GET /api/v1/calls.
// Query-параметры: search, priority, callType, sort, page, limit.
// Ни один параметр не обязателен — всё защитно нормализуется.
func (h *APIHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	q := service.ListQuery{
		Search:   r.URL.Query().Get("search"),
		Priority: r.URL.Query().Get("priority"),
		CallType: r.URL.Query().Get("callType"),
		Sort:     r.URL.Query().Get("sort"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "limit"),
	}

	result, err := h.calls.List(r.Context(), q)
	if err != nil {
		h.logger.Error("Ошибка выборки журнала",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Page:    result.Page,
		Total:   result.Total,
		Data:    result.Entries,
	})
}

// UpdateCall — реализация PATCH /api/v1/calls/{id}.
// Сливает только присутствующие непустые поля, остальные не трогает.
func (h *APIHandler) UpdateCall(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.ValidationError(w, "Не указан идентификатор записи")
		return
	}

	var partial model.CallLogEntry
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	if err := h.calls.Update(r.Context(), id, partial); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Запись с указанным id не найдена")
			return
		}
		h.logger.Error("Ошибка обновления записи журнала",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updateResponse{Success: true})
}
