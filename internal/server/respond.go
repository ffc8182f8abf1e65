package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"college_api/internal/apperr"
	"college_api/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("error encoding json response: %s", err)
	}
	return nil
}

// handlerFuncE — http.HandlerFunc, возвращающий ошибку; ошибка превращается в JSON-ответ.
type handlerFuncE func(w http.ResponseWriter, r *http.Request) error

func (f handlerFuncE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil {
		return
	}

	log := logger.Log.WithFields(logger.Fields{
		"path":       r.URL.Path,
		"request_id": RequestIDFromContext(r.Context()),
	})

	appErr := &apperr.Error{}
	if !errors.As(err, &appErr) {
		appErr = apperr.E(http.StatusInternalServerError, err)
	}
	if appErr.Status >= http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	} else {
		log.WithError(err).Debug("Request rejected")
	}

	if err := writeJSON(w, appErr.Status, appErr); err != nil {
		log.WithError(err).Error("Failed to write error response")
	}
}
