package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/brainrot/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
// Детали внутренних ошибок сюда не попадают - только сообщение для клиента
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Success: false,
		Message: message,
	}
	sendJSON(logger, w, resp, statusCode)
}
