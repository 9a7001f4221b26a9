// Пакет errors — JSON-ответы об ошибках API.
// Каждый ответ фасада несёт явный признак success; ответ об ошибке
// содержит человекочитаемое сообщение, производное от исходного сбоя.
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse — тело ответа об ошибке.
type ErrorResponse struct {
	// Success — всегда false в ответе об ошибке
	Success bool `json:"success"`
	// Code — машиночитаемый код ошибки
	Code string `json:"code"`
	// Error — человекочитаемое сообщение
	Error string `json:"error"`
}

// WriteError записывает JSON-ответ об ошибке с указанным статусом и кодом.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Code:    code,
		Error:   message,
	})
}

// ValidationError — 400 Bad Request.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// Unauthorized — 401 Unauthorized.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// NotFound — 404 Not Found.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "NOT_FOUND", message)
}

// InternalError — 500 Internal Server Error (UpstreamFailure от backing store).
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
