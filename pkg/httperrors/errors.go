package httperrors

import (
	"errors"
	"net/http"

	"github.com/sir_venger/file_upload/internal/models"
)

// Status подбирает HTTP-код для ошибки стораджа.
func Status(err error) int {
	var initErr *models.InitError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrEmptyFile), errors.Is(err, models.ErrInvalidFilename):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrNotInitialized), errors.As(err, &initErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message: текст ошибки для показа пользователю, без внутренних путей и причин.
func Message(err error) string {
	var initErr *models.InitError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "File not found."
	case errors.Is(err, models.ErrEmptyFile):
		return "Failed to store empty file."
	case errors.Is(err, models.ErrInvalidFilename):
		return "Cannot store file with relative path outside current directory."
	case errors.Is(err, models.ErrTooLarge):
		return "File is too large."
	case errors.Is(err, models.ErrNotInitialized), errors.As(err, &initErr):
		return "Storage is not available."
	default:
		return "Failed to store file."
	}
}

// Write отвечает клиенту кодом, соответствующим ошибке.
func Write(w http.ResponseWriter, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		// Подробности IO-ошибок остаются в логах.
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, Message(err), status)
}
