package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RespondJSON sends a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent, all we can do is log
		zap.L().Warn("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends a JSON error response and logs the message.
func RespondError(w http.ResponseWriter, logger *zap.Logger, message string, status int) {
	if logger == nil {
		logger = zap.L()
	}
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.Int("status", status))
	} else {
		logger.Info(message, zap.Int("status", status))
	}
	RespondJSON(w, status, map[string]string{"error": message})
}

// LatencyMiddleware logs the duration of each request
func LatencyMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("latency", time.Since(start)),
		)
	})
}
