package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// ErrorHandler recovers from panics in the wrapped handler, logs them with
// the stack trace and answers with a generic 500 JSON body.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					requestID := w.Header().Get("X-Request-ID")
					logger.Error("panic recovered",
						zap.Any("error", rec),
						zap.ByteString("stacktrace", debug.Stack()),
						zap.String("request_id", requestID),
					)

					WriteError(w, NewInternalError(requestID, fmt.Errorf("panic: %v", rec)))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// LogError logs an error with its context. Client errors are logged at warn
// level, everything else at error level.
func LogError(logger *zap.Logger, err error, requestID string) {
	var svcErr *ServiceError
	if As(err, &svcErr) {
		fields := []zap.Field{
			zap.String("error_type", string(svcErr.Type)),
			zap.String("message", svcErr.Message),
			zap.Int("code", svcErr.Code),
			zap.String("request_id", requestID),
		}
		if svcErr.Details != nil {
			fields = append(fields, zap.Any("details", svcErr.Details))
		}
		if cause := svcErr.Unwrap(); cause != nil {
			fields = append(fields, zap.NamedError("cause", cause))
		}
		if svcErr.Code < http.StatusInternalServerError {
			logger.Warn("request error", fields...)
			return
		}
		logger.Error("request error", fields...)
		return
	}

	logger.Error("unexpected error",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
}
