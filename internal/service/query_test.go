package service

import (
	"testing"

	"github.com/bigkaa/calllog/internal/domain/model"
)

// --- Тесты конвейера чтения ---

// TestSearchEntries_CaseInsensitiveSubstring проверяет, что поиск —
// вхождение подстроки без учёта регистра, не токенизация и не fuzzy.
func TestSearchEntries_CaseInsensitiveSubstring(t *testing.T) {
	entries := []model.CallLogEntry{
		{ID: "1", Name: "Jane Doe"},
	}

	for _, search := range []string{"jane", "JANE", "ane d"} {
		if got := searchEntries(entries, search); len(got) != 1 {
			t.Errorf("search %q: найдено %d, ожидалась 1", search, len(got))
		}
	}

	if got := searchEntries(entries, "janet"); len(got) != 0 {
		t.Errorf("search %q: найдено %d, ожидалось 0", "janet", len(got))
	}
}

// TestSearchEntries_MatchesPhoneAndCity проверяет поиск по phone и city.
func TestSearchEntries_MatchesPhoneAndCity(t *testing.T) {
	entries := []model.CallLogEntry{
		{ID: "1", Phone: "+1-555-0100"},
		{ID: "2", City: "Austin"},
		{ID: "3", Name: "Bob"},
	}

	if got := searchEntries(entries, "555"); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("search по phone: %v", got)
	}
	if got := searchEntries(entries, "aus"); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("search по city: %v", got)
	}
}

// TestSearchEntries_AbsentFieldNeverMatches проверяет, что запись
// с пустыми полями не совпадает и не ломает поиск.
func TestSearchEntries_AbsentFieldNeverMatches(t *testing.T) {
	entries := []model.CallLogEntry{{ID: "1"}}

	if got := searchEntries(entries, "jane"); len(got) != 0 {
		t.Errorf("пустые поля не должны совпадать: %v", got)
	}
}

// TestFilterEntries_Conjunctive проверяет конъюнктивность фильтров (AND).
func TestFilterEntries_Conjunctive(t *testing.T) {
	entries := []model.CallLogEntry{
		{ID: "1", Priority: model.PriorityUrgent, CallType: "Sales"},
		{ID: "2", Priority: model.PriorityUrgent, CallType: "Support"},
	}

	got := filterEntries(entries, model.PriorityUrgent, "Sales")
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("фильтры должны работать как AND: %v", got)
	}
}

// TestFilterEntries_ExactMatch проверяет, что фильтр — точное совпадение
// без case-folding (в отличие от поиска).
func TestFilterEntries_ExactMatch(t *testing.T) {
	entries := []model.CallLogEntry{
		{ID: "1", Priority: model.PriorityUrgent},
	}

	if got := filterEntries(entries, "urgent", ""); len(got) != 0 {
		t.Errorf("фильтр не должен делать case-folding: %v", got)
	}
	if got := filterEntries(entries, model.PriorityUrgent, ""); len(got) != 1 {
		t.Errorf("точное совпадение должно проходить: %v", got)
	}
}

// TestSortEntries_PriorityTotalOrder проверяет полный порядок приоритетов:
// [N/A, Urgent, Standard, Time-Sensitive] → [Urgent, Time-Sensitive, Standard, N/A],
// нераспознанный приоритет — после всех известных.
func TestSortEntries_PriorityTotalOrder(t *testing.T) {
	entries := []model.CallLogEntry{
		{ID: "1", Priority: model.PriorityNA},
		{ID: "2", Priority: model.PriorityUrgent},
		{ID: "3", Priority: model.PriorityStandard},
		{ID: "4", Priority: model.PriorityTimeSensitive},
		{ID: "5", Priority: "Whenever"},
	}

	sortEntries(entries, SortPriorityAsc)

	want := []string{
		model.PriorityUrgent,
		model.PriorityTimeSensitive,
		model.PriorityStandard,
		model.PriorityNA,
		"Whenever",
	}
	for i, p := range want {
		if entries[i].Priority != p {
			t.Errorf("entries[%d].Priority = %q, ожидалось %q", i, entries[i].Priority, p)
		}
	}
}

// TestSortEntries_PriorityDesc проверяет обратный порядок рангов.
func TestSortEntries_PriorityDesc(t *testing.T) {
	entries := []model.CallLogEntry{
		{ID: "1", Priority: model.PriorityUrgent},
		{ID: "2", Priority: model.PriorityNA},
	}

	sortEntries(entries, SortPriorityDesc)

	if entries[0].Priority != model.PriorityNA {
		t.Errorf("entries[0].Priority = %q, ожидалось %q", entries[0].Priority, model.PriorityNA)
	}
}

// TestSortEntries_DateAsc проверяет сортировку по времени звонка.
func TestSortEntries_DateAsc(t *testing.T) {
	entries := []model.CallLogEntry{
		{ID: "1", Time: "2026-08-02T10:00:00Z"},
		{ID: "2", Time: "2026-08-01T10:00:00Z"},
		{ID: "3", Time: "2026-08-03T10:00:00Z"},
	}

	sortEntries(entries, SortDateAsc)

	want := []string{"2", "1", "3"}
	for i, id := range want {
		if string(entries[i].ID) != id {
			t.Errorf("entries[%d].ID = %q, ожидалось %q", i, entries[i].ID, id)
		}
	}
}

// TestSortEntries_UnparseableTimeStable проверяет, что записи
// с нераспарсиваемым временем сохраняют исходный относительный порядок.
func TestSortEntries_UnparseableTimeStable(t *testing.T) {
	entries := []model.CallLogEntry{
		{ID: "1", Time: "когда-то"},
		{ID: "2", Time: ""},
		{ID: "3", Time: "2026-08-01T10:00:00Z"},
	}

	sortEntries(entries, SortDateAsc)

	// Нераспарсиваемые пары сравниваются как равные — порядок 1, 2 не меняется
	if entries[0].ID != "1" || entries[1].ID != "2" {
		t.Errorf("нестабильный порядок: %v, %v", entries[0].ID, entries[1].ID)
	}
}

// TestSortEntries_UnknownKey проверяет, что неизвестный ключ сортировки
// оставляет естественный порядок.
func TestSortEntries_UnknownKey(t *testing.T) {
	entries := []model.CallLogEntry{
		{ID: "2", Time: "2026-08-02T10:00:00Z"},
		{ID: "1", Time: "2026-08-01T10:00:00Z"},
	}

	sortEntries(entries, "by_vibes")

	if entries[0].ID != "2" {
		t.Errorf("неизвестный ключ не должен менять порядок: %v", entries[0].ID)
	}
}

// TestPaginate_Boundaries проверяет граничные случаи пагинации:
// 25 записей, pageSize=20 → страница 1 из 20, страница 2 из 5, страница 3 пустая.
func TestPaginate_Boundaries(t *testing.T) {
	entries := make([]model.CallLogEntry, 25)

	if got := paginate(entries, 1, 20); len(got) != 20 {
		t.Errorf("page=1: len = %d, ожидалось 20", len(got))
	}
	if got := paginate(entries, 2, 20); len(got) != 5 {
		t.Errorf("page=2: len = %d, ожидалось 5", len(got))
	}
	got := paginate(entries, 3, 20)
	if len(got) != 0 {
		t.Errorf("page=3: len = %d, ожидалось 0", len(got))
	}
	if got == nil {
		t.Error("пустая страница должна быть slice, а не nil (JSON [])")
	}
}

// TestApplyQuery_TotalBeforePagination проверяет, что total считается
// после поиска и фильтров, но до пагинации.
func TestApplyQuery_TotalBeforePagination(t *testing.T) {
	entries := make([]model.CallLogEntry, 25)
	for i := range entries {
		entries[i].Name = "Jane"
	}

	page, total := applyQuery(entries, ListQuery{Search: "jane", Page: 2, PageSize: 20})

	if total != 25 {
		t.Errorf("total = %d, ожидалось 25", total)
	}
	if len(page) != 5 {
		t.Errorf("len(page) = %d, ожидалось 5", len(page))
	}
}
