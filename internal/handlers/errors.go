package handlers

import (
	"net/http"

	"taskMaster/internal/handlers/dto"
	"taskMaster/internal/logger"
	"taskMaster/internal/service"

	"go.uber.org/zap"
)

const (
	msgInvalidJSON    = "Invalid JSON in request body"
	msgBodyTooLarge   = "Request body too large"
	msgContentType    = "Content-Type must be application/json"
	msgRouteNotFound  = "API endpoint not found"
	msgInternalServer = "Internal server error"
)

// handleServiceError пишет ответ для ошибки сервиса и возвращает итоговый статус
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) int {
	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		logger.Error("HTTP: Неизвестная ошибка Service", err,
			zap.String("operation", operation),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, msgInternalServer)
		return http.StatusInternalServerError
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP: Ошибка хранилища", err,
			zap.String("operation", operation),
			zap.String("client_ip", r.RemoteAddr))
	} else {
		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))
	}

	body := dto.ErrorResponse{
		Error: businessErr.Message,
		Code:  businessErr.Code,
	}
	if len(businessErr.Details) > 0 {
		body.Details = businessErr.Details
	}
	responseWithJSON(w, statusCode, body)
	return statusCode
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeEmptyBody, service.CodeInvalidTitle, service.CodeInvalidStatus, service.CodeInvalidPriority:
		return http.StatusBadRequest
	case service.CodeStoreError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
