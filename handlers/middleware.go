package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

type contextKey string

const RequestIDKey contextKey = "requestID"

// GetRequestID extracts the request id set by RequestIDMiddleware.
func GetRequestID(r *http.Request) string {
	if val, ok := r.Context().Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

// RequestIDMiddleware reuses the caller's X-Request-ID or mints one, echoes
// it on the response and stores it in the request context.
func RequestIDMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		requestID := e.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		e.Response.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(e.Request.Context(), RequestIDKey, requestID)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// RequestLoggerMiddleware logs one line per request, at error level for 5xx
// and warn level for 4xx.
func RequestLoggerMiddleware(logger *zap.Logger) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()

		status := e.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
			zap.String("query", e.Request.URL.RawQuery),
			zap.String("ip", e.RealIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", GetRequestID(e.Request)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		switch {
		case status >= 500 || err != nil:
			logger.Error("Server error", fields...)
		case status >= 400:
			logger.Warn("Client error", fields...)
		default:
			logger.Info("Request", fields...)
		}
		return err
	}
}
