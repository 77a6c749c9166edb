// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs request failures with a consistent shape and renders the
// matching error page, so handlers can fail in one line.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

// LogBadRequest records a client validation failure and renders a
// bad-request page with userMsg.
func (el *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	el.log.Warn(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogForbidden records an authorization refusal and renders a forbidden page
// with userMsg.
func (el *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg, userMsg, backURL string) {
	el.log.Warn(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	RenderForbidden(w, r, userMsg, backURL)
}

// LogNotFound records a missing-resource lookup and renders a not-found page
// with userMsg.
func (el *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, msg, userMsg, backURL string) {
	el.log.Warn(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	RenderNotFound(w, r, userMsg, backURL)
}

// LogServerError records an unexpected failure and renders a generic error
// page with userMsg.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	el.log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	RenderServerError(w, r, userMsg, backURL)
}
