package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"interview-alchemist/internal/models"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError classifies err and writes the error envelope. Server side
// failures are logged with their cause, client errors are not.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := models.Classify(err)
	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.String("kind", string(appErr.Kind)), zap.Error(err))
	}
	JSON(w, status, models.ErrorEnvelope{Error: models.ErrorBody{
		Message:    appErr.Message,
		StatusCode: status,
		Code:       string(appErr.Kind),
	}})
}

// WriteErrorMessage writes the envelope for a failure raised by the HTTP layer itself
func WriteErrorMessage(w http.ResponseWriter, status int, code models.ErrorKind, message string) {
	JSON(w, status, models.ErrorEnvelope{Error: models.ErrorBody{
		Message:    message,
		StatusCode: status,
		Code:       string(code),
	}})
}
