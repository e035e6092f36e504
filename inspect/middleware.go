package inspect

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one listed runs outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}

	return h
}

type statusWriter struct {
	http.ResponseWriter

	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}

	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	return w.ResponseWriter.Write(b) //nolint:wrapcheck
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Logging logs one line per request. 4xx responses log at Warn, 5xx at Error.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			if sw.status == 0 {
				sw.status = http.StatusOK
			}

			level := slog.LevelInfo

			switch {
			case sw.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case sw.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recovery turns a panicking handler into a 500 response.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				if err, ok := rec.(error); ok && err == http.ErrAbortHandler { //nolint:errorlint,err113
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.String("panic", fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
					slog.String("path", r.URL.Path),
				)

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Timeout answers 503 when a request takes longer than d. A non-positive d
// uses ten seconds.
func Timeout(d time.Duration) Middleware {
	if d <= 0 {
		d = defaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "Service Unavailable")
	}
}
