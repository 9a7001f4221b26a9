// calls.go — сервис журнала звонков: создание, выборка и обновление записей.
// Координирует rowstore, codec и Prometheus-метрики.
// Сервис не держит состояния между запросами: каждая операция заново
// читает полный набор строк из backing store (кэша нет по дизайну).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/calllog/internal/codec"
	"github.com/bigkaa/calllog/internal/domain/model"
	"github.com/bigkaa/calllog/internal/rowstore"
)

// Ошибки сервисного слоя.
var (
	// ErrNotFound — запись с указанным id не найдена.
	ErrNotFound = errors.New("запись не найдена")
)

// Верхняя граница размера страницы.
const maxPageSize = 1000

// Prometheus-метрики журнала звонков.
var (
	callsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cl_calls_created_total",
		Help: "Общее количество созданных записей журнала звонков.",
	})
	listTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cl_list_requests_total",
		Help: "Общее количество запросов выборки журнала.",
	})
	listDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cl_list_duration_seconds",
		Help:    "Длительность выборки журнала (включая чтение store).",
		Buckets: prometheus.DefBuckets,
	})
	callsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cl_calls_updated_total",
		Help: "Общее количество обновлённых записей журнала.",
	})
	updateNotFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cl_update_not_found_total",
		Help: "Количество обновлений с ненайденным идентификатором.",
	})
)

// ListResult — результат выборки с пагинацией.
type ListResult struct {
	// Page — номер страницы из запроса (эхо)
	Page int
	// Total — количество совпадений до пагинации
	Total int
	// Entries — страница записей, длина ≤ pageSize
	Entries []model.CallLogEntry
}

// CallService — сервис журнала звонков.
type CallService struct {
	store           rowstore.Store
	defaultPageSize int
	now             func() time.Time
	logger          *slog.Logger
}

// NewCallService создаёт сервис журнала звонков.
// defaultPageSize — размер страницы при отсутствии limit в запросе.
func NewCallService(store rowstore.Store, defaultPageSize int, logger *slog.Logger) *CallService {
	if defaultPageSize < 1 {
		defaultPageSize = 20
	}
	return &CallService{
		store:           store,
		defaultPageSize: defaultPageSize,
		now:             time.Now,
		logger:          logger.With(slog.String("component", "call_service")),
	}
}

// Create строит строку из записи и добавляет её в конец хранилища.
// Возвращает итоговый идентификатор (клиентский либо сгенерированный).
// Уникальность id не проверяется; ошибка store всплывает как есть, без retry.
func (s *CallService) Create(ctx context.Context, e model.CallLogEntry) (string, error) {
	row := codec.ToRow(e, s.now())

	if err := s.store.AppendRow(ctx, row); err != nil {
		return "", fmt.Errorf("запись в журнал: %w", err)
	}

	callsCreatedTotal.Inc()
	s.logger.Debug("Запись журнала создана", slog.String("id", row[0]))

	return row[0], nil
}

// List выполняет выборку журнала: полный re-fetch из store,
// материализация через codec, затем конвейер поиска/фильтров/сортировки/пагинации.
func (s *CallService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	start := time.Now()
	listTotal.Inc()

	rows, err := s.store.FetchAllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("чтение журнала: %w", err)
	}

	dataRows := rows[headerOffset(rows):]
	entries := make([]model.CallLogEntry, 0, len(dataRows))
	for i, row := range dataRows {
		entries = append(entries, codec.FromRow(row, i))
	}

	q.Page, q.PageSize = s.normalizePage(q.Page, q.PageSize)
	pageEntries, total := applyQuery(entries, q)

	duration := time.Since(start)
	listDuration.Observe(duration.Seconds())

	s.logger.Debug("Выборка журнала выполнена",
		slog.Int("total", total),
		slog.Int("returned", len(pageEntries)),
		slog.Duration("duration", duration),
	)

	return &ListResult{
		Page:    q.Page,
		Total:   total,
		Entries: pageEntries,
	}, nil
}

// Update находит первую строку с указанным id и перезаписывает её целиком
// слиянием по приоритету: входящее непустое значение > сохранённое > пустая строка.
// Столбец идентификатора не меняется. Нет совпадения — ErrNotFound,
// store не изменяется. Повторяющиеся id не детектируются (first-match-wins).
//
// Между чтением и перезаписью есть окно гонки: два конкурентных обновления
// одного id могут потерять одно из изменений. Принятое ограничение
// spreadsheet-as-database, store не даёт compare-and-swap.
func (s *CallService) Update(ctx context.Context, id string, partial model.CallLogEntry) error {
	rows, err := s.store.FetchAllRows(ctx)
	if err != nil {
		return fmt.Errorf("чтение журнала: %w", err)
	}

	offset := headerOffset(rows)
	for i, row := range rows[offset:] {
		if len(row) == 0 || row[0] != id {
			continue
		}

		merged := mergeRow(row, partial, id)
		if err := s.store.ReplaceRow(ctx, offset+i+1, merged); err != nil {
			return fmt.Errorf("перезапись строки журнала: %w", err)
		}

		callsUpdatedTotal.Inc()
		s.logger.Debug("Запись журнала обновлена", slog.String("id", id))
		return nil
	}

	updateNotFoundTotal.Inc()
	return ErrNotFound
}

// normalizePage защитно нормализует параметры пагинации.
func (s *CallService) normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// headerOffset возвращает 1, если первая строка — заголовок
// (первая ячейка равна литералу заголовка столбца id), иначе 0.
func headerOffset(rows [][]string) int {
	if len(rows) > 0 && len(rows[0]) > 0 && rows[0][0] == rowstore.HeaderIDCell {
		return 1
	}
	return 0
}

// mergeRow строит новую строку по каждой из 13 позиций:
// входящее непустое значение, иначе сохранённое, иначе пустая строка.
// Позиция идентификатора фиксируется id, использованным для поиска.
// Следствие дизайна: очистить поле до пустого значения через partial
// update невозможно — пустая строка проваливается к сохранённому значению.
func mergeRow(existing []string, partial model.CallLogEntry, id string) []string {
	incoming := []string{
		"", // идентификатор не обновляется
		partial.Phone,
		partial.Name,
		partial.City,
		partial.FirstTime,
		partial.Time,
		partial.CallType,
		partial.Purpose,
		partial.Result,
		partial.Notes,
		partial.Priority,
		string(partial.Duration),
		partial.RecordingURL,
	}

	merged := make([]string, model.NumColumns)
	merged[0] = id
	for i := 1; i < model.NumColumns; i++ {
		switch {
		case incoming[i] != "":
			merged[i] = incoming[i]
		case i < len(existing):
			merged[i] = existing[i]
		default:
			merged[i] = ""
		}
	}
	return merged
}
