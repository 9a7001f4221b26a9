// Пакет model — доменные модели Call Log Façade.
// CallLogEntry — каноническая запись журнала звонков (13 полей, порядок фиксирован).
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NumColumns — количество столбцов в строке backing store.
// Порядок позиционный: id первый, далее по объявлению полей CallLogEntry.
const NumColumns = 13

// FlexString — строка, принимающая в JSON как строковые, так и числовые значения.
// Клиенты оригинального фасада передают id и duration то числом, то строкой.
type FlexString string

// UnmarshalJSON принимает строку, число или null.
func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	// Числовой литерал — сохраняем как есть (без потери точности через float64)
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id/duration: ожидалась строка или число: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}

// CallLogEntry — запись журнала звонков.
// Все поля опциональны: отсутствие кодируется пустой строкой,
// null-маркеров в backing store нет.
type CallLogEntry struct {
	// ID — уникальный идентификатор (клиентский либо сгенерированный).
	// Уникальность предполагается, но store её не проверяет.
	ID FlexString `json:"id"`
	// Phone — телефон звонившего
	Phone string `json:"phone"`
	// Name — имя звонившего
	Name string `json:"name"`
	// City — город
	City string `json:"city"`
	// FirstTime — первый ли звонок (свободный формат)
	FirstTime string `json:"firstTime"`
	// Time — время звонка (ISO-8601; при создании по умолчанию "сейчас")
	Time string `json:"time"`
	// CallType — тип звонка (открытое множество значений)
	CallType string `json:"callType"`
	// Purpose — цель звонка
	Purpose string `json:"purpose"`
	// Result — результат звонка
	Result string `json:"result"`
	// Notes — заметки
	Notes string `json:"notes"`
	// Priority — приоритет: Urgent, Time-Sensitive, Standard, Low Priority, N/A.
	// Множество открытое — нераспознанные значения допустимы (ранг 6 при сортировке).
	Priority string `json:"priority"`
	// Duration — длительность звонка (строка или число у клиентов)
	Duration FlexString `json:"duration"`
	// RecordingURL — ссылка на запись разговора
	RecordingURL string `json:"recordingUrl"`
}

// Ранги приоритетов для сортировки: меньший ранг — более срочный.
const (
	PriorityUrgent        = "Urgent"
	PriorityTimeSensitive = "Time-Sensitive"
	PriorityStandard      = "Standard"
	PriorityLow           = "Low Priority"
	PriorityNA            = "N/A"
)

// priorityRank — фиксированная таблица рангов приоритетов.
var priorityRank = map[string]int{
	PriorityUrgent:        1,
	PriorityTimeSensitive: 2,
	PriorityStandard:      3,
	PriorityLow:           4,
	PriorityNA:            5,
}

// PriorityRank возвращает ранг приоритета для сортировки.
// Значения вне таблицы получают ранг 6 (ниже всех известных).
func PriorityRank(priority string) int {
	if rank, ok := priorityRank[priority]; ok {
		return rank
	}
	return 6
}
