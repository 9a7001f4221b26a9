package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/bigkaa/calllog/internal/domain/model"
	"github.com/bigkaa/calllog/internal/rowstore"
)

// --- Mock store ---

// mockStore — мок rowstore.Store для unit-тестов.
type mockStore struct {
	fetchAllFn   func(ctx context.Context) ([][]string, error)
	appendFn     func(ctx context.Context, row []string) error
	replaceFn    func(ctx context.Context, pos int, row []string) error
	appended     [][]string
	replacedPos  int
	replacedRow  []string
	replaceCalls int
}

func (m *mockStore) FetchAllRows(ctx context.Context) ([][]string, error) {
	if m.fetchAllFn != nil {
		return m.fetchAllFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) AppendRow(ctx context.Context, row []string) error {
	m.appended = append(m.appended, row)
	if m.appendFn != nil {
		return m.appendFn(ctx, row)
	}
	return nil
}

func (m *mockStore) ReplaceRow(ctx context.Context, pos int, row []string) error {
	m.replaceCalls++
	m.replacedPos = pos
	m.replacedRow = row
	if m.replaceFn != nil {
		return m.replaceFn(ctx, pos, row)
	}
	return nil
}

func newTestService(store rowstore.Store) *CallService {
	svc := NewCallService(store, 20, slog.Default())
	svc.now = func() time.Time {
		return time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

// --- Тесты Create ---

// TestCallService_Create проверяет добавление строки из 13 ячеек
// и возврат клиентского идентификатора.
func TestCallService_Create(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	id, err := svc.Create(context.Background(), model.CallLogEntry{ID: "42", Name: "Jane"})
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if id != "42" {
		t.Errorf("id = %q, ожидался %q", id, "42")
	}

	if len(store.appended) != 1 {
		t.Fatalf("AppendRow вызван %d раз, ожидался 1", len(store.appended))
	}
	row := store.appended[0]
	if len(row) != model.NumColumns {
		t.Errorf("len(row) = %d, ожидалось %d", len(row), model.NumColumns)
	}
	if row[0] != "42" || row[2] != "Jane" {
		t.Errorf("неожиданная строка: %v", row)
	}
}

// TestCallService_Create_GeneratedID проверяет генерацию id при его отсутствии.
func TestCallService_Create_GeneratedID(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	id, err := svc.Create(context.Background(), model.CallLogEntry{Name: "Jane"})
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if id == "" {
		t.Error("id пустой: должен генерироваться из текущего времени")
	}
}

// TestCallService_Create_StoreError проверяет, что ошибка store
// всплывает к вызывающему коду без retry.
func TestCallService_Create_StoreError(t *testing.T) {
	storeErr := errors.New("quota exceeded")
	store := &mockStore{
		appendFn: func(_ context.Context, _ []string) error { return storeErr },
	}
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), model.CallLogEntry{})
	if !errors.Is(err, storeErr) {
		t.Errorf("ошибка = %v, ожидалась обёртка над %v", err, storeErr)
	}
	if len(store.appended) != 1 {
		t.Errorf("AppendRow вызван %d раз, retry недопустим", len(store.appended))
	}
}

// --- Тесты List ---

// TestCallService_List_SkipsHeader проверяет пропуск строки-заголовка
// при материализации записей.
func TestCallService_List_SkipsHeader(t *testing.T) {
	store := &mockStore{
		fetchAllFn: func(_ context.Context) ([][]string, error) {
			return [][]string{
				{"id", "phone", "name", "city"},
				{"1", "555", "Jane", "Austin"},
				{"2", "777", "Bob", "Dallas"},
			}, nil
		},
	}
	svc := newTestService(store)

	result, err := svc.List(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}

	if result.Total != 2 {
		t.Errorf("Total = %d, ожидалось 2 (заголовок не запись)", result.Total)
	}
	if result.Page != 1 {
		t.Errorf("Page = %d, ожидалась 1", result.Page)
	}
	if len(result.Entries) != 2 || result.Entries[0].Name != "Jane" {
		t.Errorf("неожиданные записи: %+v", result.Entries)
	}
}

// TestCallService_List_NoHeader проверяет выборку без строки-заголовка.
func TestCallService_List_NoHeader(t *testing.T) {
	store := &mockStore{
		fetchAllFn: func(_ context.Context) ([][]string, error) {
			return [][]string{{"1", "555", "Jane"}}, nil
		},
	}
	svc := newTestService(store)

	result, err := svc.List(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("Total = %d, ожидалась 1", result.Total)
	}
}

// TestCallService_List_DefaultPageSize проверяет подстановку размера
// страницы по умолчанию при отсутствии limit.
func TestCallService_List_DefaultPageSize(t *testing.T) {
	rows := make([][]string, 25)
	for i := range rows {
		rows[i] = []string{"r", "555"}
	}
	store := &mockStore{
		fetchAllFn: func(_ context.Context) ([][]string, error) { return rows, nil },
	}
	svc := newTestService(store)

	result, err := svc.List(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if len(result.Entries) != 20 {
		t.Errorf("len(Entries) = %d, ожидалось 20 (default page size)", len(result.Entries))
	}
	if result.Total != 25 {
		t.Errorf("Total = %d, ожидалось 25", result.Total)
	}
}

// TestCallService_List_StoreError проверяет проброс ошибки store.
func TestCallService_List_StoreError(t *testing.T) {
	storeErr := errors.New("network fault")
	store := &mockStore{
		fetchAllFn: func(_ context.Context) ([][]string, error) { return nil, storeErr },
	}
	svc := newTestService(store)

	_, err := svc.List(context.Background(), ListQuery{})
	if !errors.Is(err, storeErr) {
		t.Errorf("ошибка = %v, ожидалась обёртка над %v", err, storeErr)
	}
}

// --- Тесты Update ---

// TestCallService_Update_MergePrecedence проверяет слияние:
// входящее непустое значение > сохранённое > пустая строка,
// идентификатор не меняется.
func TestCallService_Update_MergePrecedence(t *testing.T) {
	store := &mockStore{
		fetchAllFn: func(_ context.Context) ([][]string, error) {
			return [][]string{
				{"id", "phone", "name"},
				{"id1", "555", "Jane", "Austin"},
			}, nil
		},
	}
	svc := newTestService(store)

	err := svc.Update(context.Background(), "id1", model.CallLogEntry{Name: "Janet"})
	if err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}

	if store.replaceCalls != 1 {
		t.Fatalf("ReplaceRow вызван %d раз, ожидался 1", store.replaceCalls)
	}
	// Позиция 1-based с учётом заголовка: заголовок=1, запись=2
	if store.replacedPos != 2 {
		t.Errorf("pos = %d, ожидалась 2", store.replacedPos)
	}

	row := store.replacedRow
	if len(row) != model.NumColumns {
		t.Fatalf("len(row) = %d, ожидалось %d", len(row), model.NumColumns)
	}
	if row[0] != "id1" {
		t.Errorf("row[0] = %q: идентификатор не должен меняться", row[0])
	}
	if row[1] != "555" {
		t.Errorf("row[1] = %q: phone должен сохраниться", row[1])
	}
	if row[2] != "Janet" {
		t.Errorf("row[2] = %q, ожидалось %q", row[2], "Janet")
	}
	if row[3] != "Austin" {
		t.Errorf("row[3] = %q: city должен сохраниться", row[3])
	}
}

// TestCallService_Update_NotFound проверяет ErrNotFound для отсутствующего id
// и неизменность store.
func TestCallService_Update_NotFound(t *testing.T) {
	store := &mockStore{
		fetchAllFn: func(_ context.Context) ([][]string, error) {
			return [][]string{{"id1", "555", "Jane"}}, nil
		},
	}
	svc := newTestService(store)

	err := svc.Update(context.Background(), "no-such-id", model.CallLogEntry{Name: "Janet"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ошибка = %v, ожидалась ErrNotFound", err)
	}
	if store.replaceCalls != 0 {
		t.Errorf("ReplaceRow вызван %d раз: store не должен меняться", store.replaceCalls)
	}
}

// TestCallService_Update_FirstMatchWins проверяет first-match-wins
// при дублирующихся идентификаторах.
func TestCallService_Update_FirstMatchWins(t *testing.T) {
	store := &mockStore{
		fetchAllFn: func(_ context.Context) ([][]string, error) {
			return [][]string{
				{"dup", "111", "First"},
				{"dup", "222", "Second"},
			}, nil
		},
	}
	svc := newTestService(store)

	if err := svc.Update(context.Background(), "dup", model.CallLogEntry{Name: "Updated"}); err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}
	if store.replacedPos != 1 {
		t.Errorf("pos = %d, ожидалась 1 (первое совпадение)", store.replacedPos)
	}
	if store.replacedRow[1] != "111" {
		t.Errorf("row[1] = %q, обновляться должна первая строка", store.replacedRow[1])
	}
}

// TestCallService_Update_CannotClearField фиксирует известное ограничение:
// пустая строка в partial update не очищает сохранённое значение.
func TestCallService_Update_CannotClearField(t *testing.T) {
	store := &mockStore{
		fetchAllFn: func(_ context.Context) ([][]string, error) {
			return [][]string{{"id1", "555", "Jane"}}, nil
		},
	}
	svc := newTestService(store)

	if err := svc.Update(context.Background(), "id1", model.CallLogEntry{Name: ""}); err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}
	if store.replacedRow[2] != "Jane" {
		t.Errorf("row[2] = %q: пустое значение не должно очищать поле", store.replacedRow[2])
	}
}

// TestCallService_Update_ShortExistingRow проверяет дополнение
// усечённой сохранённой строки пустыми ячейками до 13 позиций.
func TestCallService_Update_ShortExistingRow(t *testing.T) {
	store := &mockStore{
		fetchAllFn: func(_ context.Context) ([][]string, error) {
			return [][]string{{"id1", "555"}}, nil
		},
	}
	svc := newTestService(store)

	if err := svc.Update(context.Background(), "id1", model.CallLogEntry{Notes: "note"}); err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}

	row := store.replacedRow
	if len(row) != model.NumColumns {
		t.Fatalf("len(row) = %d, ожидалось %d", len(row), model.NumColumns)
	}
	if row[9] != "note" {
		t.Errorf("row[9] = %q, ожидалось %q", row[9], "note")
	}
	if row[12] != "" {
		t.Errorf("row[12] = %q, ожидалась пустая строка", row[12])
	}
}
