package api

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/htol/bookshelf/book"
	"github.com/htol/bookshelf/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// respond writes a success envelope wrapping data
func respond(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, book.Envelope{Success: true, Data: data})
}

// respondWithError logs an error and sends a failure envelope carrying message
func respondWithError(w http.ResponseWriter, message string, err error, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logger.Error(message, "error", err, "status", statusCode)
	} else {
		logger.Warn(message, "error", err, "status", statusCode)
	}
	writeEnvelope(w, statusCode, book.Envelope{Success: false, Data: message})
}

// respondWithValidationError sends a 400 failure envelope
func respondWithValidationError(w http.ResponseWriter, message string) {
	logger.Warn("Validation error", "message", message)
	writeEnvelope(w, http.StatusBadRequest, book.Envelope{Success: false, Data: message})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, env book.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
