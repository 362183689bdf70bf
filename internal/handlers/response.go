package handlers

import (
	"encoding/json"
	"net/http"

	"taskMaster/internal/handlers/dto"
	"taskMaster/internal/logger"
)

func responseWithJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: Не удалось записать ответ", err)
	}
}

func responseWithData(w http.ResponseWriter, code int, data any, message string) {
	responseWithJSON(w, code, dto.Envelope{Success: true, Data: data, Message: message})
}

func responseWithList(w http.ResponseWriter, data any, total int) {
	responseWithJSON(w, http.StatusOK, dto.Envelope{Success: true, Data: data, Total: &total})
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, dto.ErrorResponse{Error: message})
}
