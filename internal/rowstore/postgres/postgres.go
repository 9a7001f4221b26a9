// Пакет postgres — реализация rowstore.Store поверх PostgreSQL.
// Альтернатива Sheets-бэкенду за тем же интерфейсом: таблица call_log_rows
// хранит позиционные строки как TEXT[] в порядке BIGSERIAL pos.
// Семантика намеренно та же, что у листа таблицы: full-row replace,
// без уникальности id, без compare-and-swap.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // регистрация pgx5 database driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigkaa/calllog/internal/rowstore"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store — rowstore.Store поверх таблицы call_log_rows.
type Store struct {
	pool    *pgxpool.Pool
	timeout time.Duration
	logger  *slog.Logger
}

// New создаёт PostgreSQL-хранилище: применяет миграции и открывает пул.
// databaseURL — строка подключения postgres://...
func New(ctx context.Context, databaseURL string, timeout time.Duration, logger *slog.Logger) (*Store, error) {
	if err := runMigrations(databaseURL); err != nil {
		return nil, fmt.Errorf("применение миграций: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("создание пула подключений: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("проверка подключения к PostgreSQL: %w", err)
	}

	return &Store{
		pool:    pool,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "postgres_store")),
	}, nil
}

// Close закрывает пул подключений.
func (s *Store) Close() {
	s.pool.Close()
}

// Pool возвращает пул подключений (для dephealth-мониторинга).
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// FetchAllRows возвращает все строки в порядке pos.
func (s *Store) FetchAllRows(ctx context.Context) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT cells FROM call_log_rows ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("чтение call_log_rows: %w", err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("сканирование строки: %w", err)
		}
		result = append(result, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация строк: %w", err)
	}
	return result, nil
}

// AppendRow добавляет строку в конец (следующий pos из sequence).
func (s *Store) AppendRow(ctx context.Context, row []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `INSERT INTO call_log_rows (cells) VALUES ($1)`, row)
	if err != nil {
		return fmt.Errorf("добавление строки: %w", err)
	}
	return nil
}

// ReplaceRow перезаписывает строку по 1-based порядковой позиции.
// Позиция — порядковый номер в ORDER BY pos, а не значение pos:
// контракт Store позиционный, как у листа таблицы.
func (s *Store) ReplaceRow(ctx context.Context, pos int, row []string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `
		UPDATE call_log_rows SET cells = $2
		WHERE pos = (SELECT pos FROM call_log_rows ORDER BY pos OFFSET $1 LIMIT 1)`,
		pos-1, row,
	)
	if err != nil {
		return fmt.Errorf("перезапись строки %d: %w", pos, err)
	}
	if tag.RowsAffected() == 0 {
		return rowstore.ErrNotFound
	}
	return nil
}

// CheckReady проверяет доступность PostgreSQL (readiness probe).
func (s *Store) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		return "fail", err.Error()
	}
	return "ok", ""
}

// runMigrations применяет embedded-миграции через golang-migrate.
func runMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("чтение embedded-миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(databaseURL))
	if err != nil {
		return fmt.Errorf("инициализация migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// migrateURL переводит postgres:// URL в схему pgx5 драйвера golang-migrate.
func migrateURL(databaseURL string) string {
	if rest, ok := strings.CutPrefix(databaseURL, "postgresql://"); ok {
		return "pgx5://" + rest
	}
	if rest, ok := strings.CutPrefix(databaseURL, "postgres://"); ok {
		return "pgx5://" + rest
	}
	return databaseURL
}
