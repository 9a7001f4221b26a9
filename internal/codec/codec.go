// Пакет codec — преобразование CallLogEntry ↔ позиционная строка backing store.
// Кодек чистый и никогда не возвращает ошибку: отсутствие любого поля
// допустимо и заменяется значением по умолчанию.
package codec

import (
	"strconv"
	"time"

	"github.com/bigkaa/calllog/internal/domain/model"
)

// ToRow преобразует запись в строку из 13 ячеек (id первый).
// Отсутствующее поле становится пустой строкой.
// Отсутствующий id заменяется миллисекундами epoch от now —
// чтобы на момент записи идентификатор гарантированно был непустым.
// Отсутствующее время звонка заменяется now в формате RFC 3339 UTC.
func ToRow(e model.CallLogEntry, now time.Time) []string {
	id := string(e.ID)
	if id == "" {
		id = strconv.FormatInt(now.UnixMilli(), 10)
	}

	callTime := e.Time
	if callTime == "" {
		callTime = now.UTC().Format(time.RFC3339)
	}

	return []string{
		id,
		e.Phone,
		e.Name,
		e.City,
		e.FirstTime,
		callTime,
		e.CallType,
		e.Purpose,
		e.Result,
		e.Notes,
		e.Priority,
		string(e.Duration),
		e.RecordingURL,
	}
}

// FromRow восстанавливает запись из строки backing store.
// Ячейка за пределами фактической длины строки считается пустой.
// Если ячейка идентификатора пуста, синтезируется placeholder
// "call_<ordinal>" — каждая материализованная запись имеет непустой id.
func FromRow(row []string, ordinal int) model.CallLogEntry {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	id := cell(0)
	if id == "" {
		id = "call_" + strconv.Itoa(ordinal)
	}

	return model.CallLogEntry{
		ID:           model.FlexString(id),
		Phone:        cell(1),
		Name:         cell(2),
		City:         cell(3),
		FirstTime:    cell(4),
		Time:         cell(5),
		CallType:     cell(6),
		Purpose:      cell(7),
		Result:       cell(8),
		Notes:        cell(9),
		Priority:     cell(10),
		Duration:     model.FlexString(cell(11)),
		RecordingURL: cell(12),
	}
}
