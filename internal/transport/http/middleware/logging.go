package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dat-archive/internal/metrics"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const requestLogKey contextKey = "request_log"

// requestLog collects fields set by inner middleware for the access log line.
type requestLog struct {
	email string
}

// markIdentity records the authenticated email for the access log.
func markIdentity(ctx context.Context, email string) {
	if rl, ok := ctx.Value(requestLogKey).(*requestLog); ok {
		rl.email = email
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// Logging writes one structured line per request and feeds the latency histogram.
// The level follows the status class.
func Logging(logger *slog.Logger, recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			rl := &requestLog{}

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestLogKey, rl)))

			duration := time.Since(start)
			recorder.RecordHTTPRequest(r.Method, rec.statusCode, duration)

			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", float64(duration.Nanoseconds())/float64(time.Millisecond)),
			}
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				args = append(args, slog.String("request_id", id))
			}
			if rl.email != "" {
				args = append(args, slog.String("email", rl.email))
			}

			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
