// Пакет rowstore — граница доступа к backing store журнала звонков.
// Store абстрагирует хранилище как упорядоченный список позиционных строк:
// за интерфейсом может стоять Google Sheets, реляционная таблица или
// любое другое хранилище. Store НЕ предоставляет compare-and-swap —
// read-modify-write поверх ReplaceRow имеет окно гонки (известное
// ограничение дизайна spreadsheet-as-database).
package rowstore

import (
	"context"
	"errors"
)

// Ошибки слоя хранилища.
var (
	// ErrNotFound — строка не найдена.
	ErrNotFound = errors.New("строка не найдена")
)

// HeaderIDCell — литерал заголовка столбца идентификатора.
// Если первая ячейка первой строки хранилища равна этому литералу,
// строка является заголовком и пропускается при материализации записей.
const HeaderIDCell = "id"

// Store — интерфейс backing store.
// Каждый вызов — одиночный блокирующий network round trip без внутренних
// retry: любая ошибка связи немедленно всплывает к вызывающему коду.
type Store interface {
	// FetchAllRows возвращает все строки хранилища в естественном порядке
	// (full-table read, без фильтрации на стороне хранилища).
	FetchAllRows(ctx context.Context) ([][]string, error)
	// AppendRow добавляет строку в конец хранилища.
	AppendRow(ctx context.Context, row []string) error
	// ReplaceRow перезаписывает строку целиком по 1-based позиции
	// (позиция считается по всем строкам, включая заголовок).
	ReplaceRow(ctx context.Context, pos int, row []string) error
}
