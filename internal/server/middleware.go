package server

import (
	"context"
	"net/http"
	"time"

	"college_api/internal/logger"
	"college_api/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDKey — тип ключа контекста, чтобы не пересекаться с чужими ключами.
type RequestIDKey string

const (
	// RequestIDHeader принимается от клиента и возвращается в ответе.
	RequestIDHeader                  = "X-Request-ID"
	RequestIDContextKey RequestIDKey = "request_id"
)

// RequestIDFromContext возвращает id запроса или пустую строку вне middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// RequestIDMiddleware берёт X-Request-ID клиента или выдаёт UUID,
// кладёт его в контекст и в заголовок ответа.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware пишет access-лог и метрики запроса с меткой шаблона маршрута.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		metrics.ObserveRequest(r.Method, routeName(r), rw.statusCode, duration)
		logger.Log.WithFields(logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    duration,
			"request_id":  RequestIDFromContext(r.Context()),
			"remote_addr": r.RemoteAddr,
		}).Info("Request processed")
	})
}

// routeName возвращает шаблон маршрута mux или "unmatched" для 404/405.
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// responseWriter запоминает статус ответа для лога и метрик.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
