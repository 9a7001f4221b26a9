// Пакет config — загрузка и валидация конфигурации Call Log Façade
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Режимы аутентификации.
const (
	AuthModeNone  = "none"
	AuthModeToken = "token"
	AuthModeJWT   = "jwt"
)

// Бэкенды backing store.
const (
	StoreBackendSheets   = "sheets"
	StoreBackendPostgres = "postgres"
)

// Config содержит все параметры конфигурации Call Log Façade.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Разрешённые CORS origins
	CORSAllowedOrigins []string

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 60s)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration

	// --- Журнал звонков ---

	// Размер страницы выборки при отсутствии limit в запросе
	DefaultPageSize int

	// --- Аутентификация ---

	// Режим аутентификации: none, token, jwt
	AuthMode string
	// Статический API-токен (режим token)
	APIToken string
	// URL JWKS endpoint внешнего IdP (режим jwt)
	JWKSURL string
	// Ожидаемый issuer JWT (опционально)
	JWTIssuer string
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration
	// Таймаут HTTP-клиента JWKS
	JWKSClientTimeout time.Duration
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration

	// --- Backing store ---

	// Бэкенд хранилища: sheets, postgres
	StoreBackend string
	// Таймаут одного round trip к хранилищу
	StoreTimeout time.Duration

	// Идентификатор Google-таблицы (режим sheets)
	SpreadsheetID string
	// Имя листа с журналом (по умолчанию CallLog)
	SheetName string
	// Email service account
	GoogleClientEmail string
	// Приватный ключ service account (PEM, допускаются \n-экранированные переводы строк)
	GooglePrivateKey string
	// Путь к JSON-файлу service account (альтернатива email+key)
	GoogleCredentialsFile string

	// Строка подключения PostgreSQL (режим postgres)
	PostgresURL string

	// --- Dephealth ---

	// Включён ли мониторинг зависимостей
	DephealthEnabled bool
	// Имя группы в метриках dephealth
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
	// Лейбл isentry=yes для всех зависимостей
	DephealthIsEntry bool
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны — это жёсткое условие старта,
// а не per-request ошибка.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// CL_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("CL_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("CL_PORT: %w", err)
	}

	// CL_LOG_LEVEL — уровень логирования (по умолчанию info)
	logLevel := getEnvDefault("CL_LOG_LEVEL", "info")
	cfg.LogLevel, err = parseLogLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("CL_LOG_LEVEL: %w", err)
	}

	// CL_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("CL_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("CL_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// CL_CORS_ALLOWED_ORIGINS — список origins через запятую (по умолчанию *)
	cfg.CORSAllowedOrigins = splitCSV(getEnvDefault("CL_CORS_ALLOWED_ORIGINS", "*"))

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("CL_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CL_HTTP_READ_TIMEOUT: %w", err)
	}

	cfg.HTTPWriteTimeout, err = getEnvDuration("CL_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CL_HTTP_WRITE_TIMEOUT: %w", err)
	}

	cfg.HTTPIdleTimeout, err = getEnvDuration("CL_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CL_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("CL_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CL_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Журнал звонков ---

	// CL_DEFAULT_PAGE_SIZE — размер страницы по умолчанию (20)
	cfg.DefaultPageSize, err = getEnvInt("CL_DEFAULT_PAGE_SIZE", 20)
	if err != nil {
		return nil, fmt.Errorf("CL_DEFAULT_PAGE_SIZE: %w", err)
	}
	if cfg.DefaultPageSize < 1 {
		return nil, fmt.Errorf("CL_DEFAULT_PAGE_SIZE: значение должно быть > 0")
	}

	// --- Аутентификация ---

	if err := loadAuth(cfg); err != nil {
		return nil, err
	}

	// --- Backing store ---

	if err := loadStore(cfg); err != nil {
		return nil, err
	}

	// --- Dephealth ---

	cfg.DephealthEnabled, err = getEnvBool("CL_DEPHEALTH_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("CL_DEPHEALTH_ENABLED: %w", err)
	}
	cfg.DephealthGroup = getEnvDefault("CL_DEPHEALTH_GROUP", "calllog")
	cfg.DephealthCheckInterval, err = getEnvDuration("CL_DEPHEALTH_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CL_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	cfg.DephealthIsEntry, err = getEnvBool("CL_DEPHEALTH_ISENTRY", false)
	if err != nil {
		return nil, fmt.Errorf("CL_DEPHEALTH_ISENTRY: %w", err)
	}

	return cfg, nil
}

// loadAuth загружает и валидирует параметры аутентификации.
func loadAuth(cfg *Config) error {
	var err error

	// CL_AUTH_MODE — режим аутентификации (по умолчанию none)
	cfg.AuthMode = getEnvDefault("CL_AUTH_MODE", AuthModeNone)

	switch cfg.AuthMode {
	case AuthModeNone:
		return nil

	case AuthModeToken:
		cfg.APIToken, err = getEnvRequired("CL_API_TOKEN")
		if err != nil {
			return err
		}

	case AuthModeJWT:
		cfg.JWKSURL, err = getEnvRequired("CL_JWKS_URL")
		if err != nil {
			return err
		}
		cfg.JWTIssuer = getEnvDefault("CL_JWT_ISSUER", "")
		cfg.JWTLeeway, err = getEnvDuration("CL_JWT_LEEWAY", 30*time.Second)
		if err != nil {
			return fmt.Errorf("CL_JWT_LEEWAY: %w", err)
		}
		cfg.JWKSClientTimeout, err = getEnvDuration("CL_JWKS_CLIENT_TIMEOUT", 10*time.Second)
		if err != nil {
			return fmt.Errorf("CL_JWKS_CLIENT_TIMEOUT: %w", err)
		}
		cfg.JWKSRefreshInterval, err = getEnvDuration("CL_JWKS_REFRESH_INTERVAL", time.Hour)
		if err != nil {
			return fmt.Errorf("CL_JWKS_REFRESH_INTERVAL: %w", err)
		}

	default:
		return fmt.Errorf("CL_AUTH_MODE: недопустимый режим %q, допустимые: none, token, jwt", cfg.AuthMode)
	}

	return nil
}

// loadStore загружает и валидирует параметры backing store.
func loadStore(cfg *Config) error {
	var err error

	// CL_STORE_BACKEND — бэкенд хранилища (по умолчанию sheets)
	cfg.StoreBackend = getEnvDefault("CL_STORE_BACKEND", StoreBackendSheets)

	cfg.StoreTimeout, err = getEnvDuration("CL_STORE_TIMEOUT", 15*time.Second)
	if err != nil {
		return fmt.Errorf("CL_STORE_TIMEOUT: %w", err)
	}

	switch cfg.StoreBackend {
	case StoreBackendSheets:
		cfg.SpreadsheetID, err = getEnvRequired("CL_SPREADSHEET_ID")
		if err != nil {
			return err
		}
		cfg.SheetName = getEnvDefault("CL_SHEET_NAME", "CallLog")
		cfg.GoogleClientEmail = getEnvDefault("CL_GOOGLE_CLIENT_EMAIL", "")
		cfg.GooglePrivateKey = getEnvDefault("CL_GOOGLE_PRIVATE_KEY", "")
		cfg.GoogleCredentialsFile = getEnvDefault("CL_GOOGLE_CREDENTIALS_FILE", "")

		if cfg.GoogleCredentialsFile == "" && (cfg.GoogleClientEmail == "" || cfg.GooglePrivateKey == "") {
			return fmt.Errorf("учётные данные Sheets не заданы: нужен CL_GOOGLE_CREDENTIALS_FILE либо CL_GOOGLE_CLIENT_EMAIL + CL_GOOGLE_PRIVATE_KEY")
		}

	case StoreBackendPostgres:
		cfg.PostgresURL, err = getEnvRequired("CL_POSTGRES_URL")
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("CL_STORE_BACKEND: недопустимый бэкенд %q, допустимые: sheets, postgres", cfg.StoreBackend)
	}

	return nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// splitCSV разбирает список значений через запятую, отбрасывая пустые элементы.
func splitCSV(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
