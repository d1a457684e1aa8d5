package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	logpkg "github.com/benvon/lemonaid/internal/logger"
	"github.com/benvon/lemonaid/internal/response"
	"go.uber.org/zap"
)

// GenericErrorMessage replaces panic details in production responses.
const GenericErrorMessage = "Internal Server Error"

// ErrorHandler recovers panics from next, logs them with the stack and answers 500.
// Outside production the panic message is returned to the client.
func ErrorHandler(logger *zap.Logger, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				message := panicMessage(rec)
				logger.Error("Unhandled error",
					zap.String("error", logpkg.SanitizeString(message, logpkg.MaxErrorMessageLength)),
					zap.String("stack", string(debug.Stack())),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("method", r.Method),
				)

				if production {
					message = GenericErrorMessage
				}
				response.Error(w, http.StatusInternalServerError, message)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func panicMessage(rec any) string {
	var message string
	switch v := rec.(type) {
	case error:
		message = v.Error()
	case string:
		message = v
	default:
		message = fmt.Sprint(v)
	}
	if message == "" {
		return "Unknown error"
	}
	return message
}

// NotFound answers unmatched routes with 404 {"error":"Not Found"}.
func NotFound(logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("404 Not Found", zap.String("path", logpkg.SanitizePath(r.URL.Path)))
		response.Error(w, http.StatusNotFound, "Not Found")
	})
}

// MethodNotAllowed answers routes matched with the wrong method.
func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}
