package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"taskMaster/internal/logger"
	"taskMaster/internal/models/task"

	"go.uber.org/zap"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// readInput читает тело запроса. Пустое тело даёт nil без ошибки,
// решение о нём принимает сервис. При ошибке ответ уже записан.
func (s *TaskHandler) readInput(w http.ResponseWriter, r *http.Request) (*task.Input, bool) {
	defer r.Body.Close()

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("HTTP: Слишком большое тело запроса",
				zap.Int64("limit", tooLarge.Limit),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return nil, false
		}
		logger.Warn("HTTP: Ошибка чтения тела", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, msgInvalidJSON)
		return nil, false
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, true
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, msgContentType)
		return nil, false
	}

	var in task.Input
	if err := json.Unmarshal(raw, &in); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, msgInvalidJSON)
		return nil, false
	}

	return &in, true
}
