package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// okHandler — конечный обработчик, до которого должен дойти
// только аутентифицированный запрос.
func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTokenAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "валидный токен",
			authHeader: "Bearer secret-token",
			wantStatus: http.StatusOK,
		},
		{
			name:       "неверный токен",
			authHeader: "Bearer wrong",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "без заголовка",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "не Bearer схема",
			authHeader: "Basic c2VjcmV0",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Bearer без токена",
			authHeader: "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
	}

	mw := TokenAuth("secret-token", slog.Default())
	handler := mw(okHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/calls", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, ожидалось %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"обычный токен", "Bearer abc123", "abc123", true},
		{"пустой заголовок", "", "", false},
		{"без схемы", "abc123", "", false},
		{"только схема", "Bearer", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, ok := bearerToken(req)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("bearerToken = (%q, %v), ожидалось (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
