// Пакет sheets — реализация rowstore.Store поверх Google Sheets API v4.
// Авторизация — service account: client_credentials-подобный JWT flow
// через golang.org/x/oauth2 (email + private key из окружения, как в
// оригинальном фасаде) либо стандартный credentials-файл.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	oauthjwt "golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/bigkaa/calllog/internal/domain/model"
)

// Credentials — учётные данные service account для доступа к таблице.
// Заполняется либо пара ClientEmail+PrivateKey, либо CredentialsFile.
type Credentials struct {
	// ClientEmail — email service account (client_email из JSON-ключа)
	ClientEmail string
	// PrivateKey — приватный ключ PEM; допускаются \n-экранированные
	// переводы строк (значение из переменной окружения)
	PrivateKey string
	// CredentialsFile — путь к JSON-файлу service account (альтернатива)
	CredentialsFile string
}

// Store — rowstore.Store поверх одного листа Google Sheets.
type Store struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	timeout       time.Duration
	logger        *slog.Logger
}

// New создаёт Sheets-хранилище.
// spreadsheetID — идентификатор таблицы, sheetName — имя листа (например "CallLog").
// timeout — таймаут одного round trip к Sheets API (из CL_STORE_TIMEOUT).
func New(
	ctx context.Context,
	spreadsheetID string,
	sheetName string,
	creds Credentials,
	timeout time.Duration,
	logger *slog.Logger,
) (*Store, error) {
	opts, err := clientOptions(ctx, creds)
	if err != nil {
		return nil, err
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("создание Sheets-клиента: %w", err)
	}

	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		timeout:       timeout,
		logger:        logger.With(slog.String("component", "sheets_store")),
	}, nil
}

// clientOptions строит опции Sheets-клиента из учётных данных.
func clientOptions(ctx context.Context, creds Credentials) ([]option.ClientOption, error) {
	if creds.CredentialsFile != "" {
		return []option.ClientOption{
			option.WithCredentialsFile(creds.CredentialsFile),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		}, nil
	}

	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, fmt.Errorf("не заданы учётные данные Sheets: нужен credentials-файл либо client_email + private_key")
	}

	// Приватный ключ из окружения приходит с экранированными \n
	privateKey := strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")

	conf := &oauthjwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	return []option.ClientOption{
		option.WithTokenSource(conf.TokenSource(ctx)),
	}, nil
}

// FetchAllRows читает все строки листа (включая заголовок, если он есть).
func (s *Store) FetchAllRows(ctx context.Context) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("чтение диапазона %s: %w", s.readRange(), err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		rows = append(rows, cellsToStrings(values))
	}
	return rows, nil
}

// AppendRow добавляет строку в конец листа (trailing insert).
func (s *Store) AppendRow(ctx context.Context, row []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vr := &sheetsapi.ValueRange{Values: [][]any{rowToValues(row)}}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.readRange(), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("добавление строки в %s: %w", s.sheetName, err)
	}
	return nil
}

// ReplaceRow перезаписывает строку целиком по 1-based позиции листа.
func (s *Store) ReplaceRow(ctx context.Context, pos int, row []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vr := &sheetsapi.ValueRange{Values: [][]any{rowToValues(row)}}

	rng := rowRange(s.sheetName, pos)
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("перезапись строки %s: %w", rng, err)
	}
	return nil
}

// CheckReady проверяет доступность таблицы (readiness probe).
func (s *Store) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return "fail", err.Error()
	}
	return "ok", ""
}

// readRange возвращает диапазон всех 13 столбцов листа (A:M).
func (s *Store) readRange() string {
	return fmt.Sprintf("%s!A:%s", s.sheetName, lastColumn())
}

// rowRange возвращает диапазон одной строки листа по 1-based позиции.
func rowRange(sheetName string, pos int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheetName, pos, lastColumn(), pos)
}

// lastColumn — буква последнего столбца (M при 13 столбцах).
func lastColumn() string {
	return string(rune('A' + model.NumColumns - 1))
}

// cellsToStrings приводит ячейки Sheets API к строкам.
// API возвращает any — строка, число или bool в зависимости от
// форматирования ячейки; представление хранилища lossy по дизайну.
func cellsToStrings(values []any) []string {
	cells := make([]string, 0, len(values))
	for _, v := range values {
		cells = append(cells, cellToString(v))
	}
	return cells
}

// cellToString приводит одну ячейку к строке.
func cellToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// rowToValues преобразует строку в формат ValueRange.
func rowToValues(row []string) []any {
	values := make([]any, 0, len(row))
	for _, cell := range row {
		values = append(values, cell)
	}
	return values
}
