// query.go — конвейер чтения журнала звонков:
// поиск → фильтры → сортировка → пагинация поверх полного набора записей.
// Порядок фиксирован: сортировка не меняет состав совпадений, только порядок;
// total считается до пагинации.
package service

import (
	"sort"
	"strings"
	"time"

	"github.com/bigkaa/calllog/internal/domain/model"
)

// Допустимые значения параметра sort (whitelist).
// Любое другое значение трактуется как SortNone — естественный порядок хранилища.
const (
	SortNone         = ""
	SortDateAsc      = "date_asc"
	SortDateDesc     = "date_desc"
	SortPriorityAsc  = "priority_asc"
	SortPriorityDesc = "priority_desc"
)

// ListQuery — параметры запроса списка. Живёт в рамках одного запроса,
// не персистентен. Некорректные значения не являются ошибкой —
// все параметры защитно нормализуются.
type ListQuery struct {
	// Search — подстрока для поиска по name, phone, city (case-insensitive)
	Search string
	// Priority — фильтр по приоритету (точное совпадение, без case-folding)
	Priority string
	// CallType — фильтр по типу звонка (точное совпадение)
	CallType string
	// Sort — ключ сортировки (см. Sort* константы)
	Sort string
	// Page — номер страницы, 1-based
	Page int
	// PageSize — размер страницы
	PageSize int
}

// applyQuery прогоняет записи через конвейер чтения.
// Возвращает страницу результатов и total — количество совпадений до пагинации.
func applyQuery(entries []model.CallLogEntry, q ListQuery) (page []model.CallLogEntry, total int) {
	matched := filterEntries(searchEntries(entries, q.Search), q.Priority, q.CallType)
	total = len(matched)

	sortEntries(matched, q.Sort)

	return paginate(matched, q.Page, q.PageSize), total
}

// searchEntries оставляет записи, у которых name, phone или city содержат
// search как подстроку (case-insensitive, без токенизации).
// Пустое поле записи никогда не совпадает — но и не является ошибкой.
func searchEntries(entries []model.CallLogEntry, search string) []model.CallLogEntry {
	if search == "" {
		return entries
	}

	needle := strings.ToLower(search)
	var matched []model.CallLogEntry
	for _, e := range entries {
		if containsFold(e.Name, needle) || containsFold(e.Phone, needle) || containsFold(e.City, needle) {
			matched = append(matched, e)
		}
	}
	return matched
}

// containsFold проверяет вхождение needle (уже в нижнем регистре) в field.
func containsFold(field, needle string) bool {
	return strings.Contains(strings.ToLower(field), needle)
}

// filterEntries применяет конъюнктивные (AND) фильтры точного совпадения.
// Пустой фильтр не применяется.
func filterEntries(entries []model.CallLogEntry, priority, callType string) []model.CallLogEntry {
	if priority == "" && callType == "" {
		return entries
	}

	var matched []model.CallLogEntry
	for _, e := range entries {
		if priority != "" && e.Priority != priority {
			continue
		}
		if callType != "" && e.CallType != callType {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

// sortEntries сортирует записи in-place по ключу из whitelist.
// Сортировка стабильная: равные элементы (в том числе записи
// с нераспарсиваемым временем) сохраняют исходный относительный порядок.
func sortEntries(entries []model.CallLogEntry, sortKey string) {
	switch sortKey {
	case SortDateAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return lessByTime(entries[i].Time, entries[j].Time)
		})
	case SortDateDesc:
		sort.SliceStable(entries, func(i, j int) bool {
			return lessByTime(entries[j].Time, entries[i].Time)
		})
	case SortPriorityAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return model.PriorityRank(entries[i].Priority) < model.PriorityRank(entries[j].Priority)
		})
	case SortPriorityDesc:
		sort.SliceStable(entries, func(i, j int) bool {
			return model.PriorityRank(entries[i].Priority) > model.PriorityRank(entries[j].Priority)
		})
	default:
		// Естественный порядок хранилища
	}
}

// lessByTime сравнивает два значения времени звонка.
// Нераспарсиваемое значение сравнивается как равное — пара с хотя бы
// одним таким значением не переставляется (стабильная сортировка).
func lessByTime(a, b string) bool {
	ta, okA := parseCallTime(a)
	tb, okB := parseCallTime(b)
	if !okA || !okB {
		return false
	}
	return ta.Before(tb)
}

// Форматы времени звонка в порядке убывания приоритета.
// Основной — RFC 3339 (его пишет сам фасад при создании).
var callTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseCallTime разбирает значение поля времени звонка.
func parseCallTime(s string) (time.Time, bool) {
	for _, layout := range callTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// paginate возвращает срез [start, start+pageSize) по 1-based номеру страницы.
// Страница за пределами диапазона — пустой результат, не ошибка.
// Результат всегда непустой slice (не nil) — в JSON сериализуется как [].
func paginate(entries []model.CallLogEntry, page, pageSize int) []model.CallLogEntry {
	start := (page - 1) * pageSize
	if start >= len(entries) || start < 0 {
		return []model.CallLogEntry{}
	}

	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
