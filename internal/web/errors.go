package web

// errors.go provides unified error response handling for the web layer.
//
// Handlers call respondError with whatever the service returned. The error
// is logged with the request ID, mapped to a coded user message through
// core.MapError and rendered as JSON, or as an HTML fragment for HTMX
// requests. The status code is derived from the error itself.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/logging"
	"github.com/JonMunkholm/backoffice/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Action  string   `json:"action,omitempty"`
	Code    string   `json:"code"`
	Errors  []string `json:"errors,omitempty"`
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	var ie *core.InvalidInputError
	switch {
	case errors.As(err, &ie):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrIllegalTransition),
		errors.Is(err, core.ErrConcurrentUpdate),
		errors.Is(err, core.ErrDuplicateOrder),
		errors.Is(err, core.ErrDuplicateSKU):
		return http.StatusConflict
	case errors.Is(err, core.ErrOrderNotFound), errors.Is(err, core.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	if isHTMX(r) {
		renderErrorPartial(w, r, userMsg, statusCode)
		return
	}

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	var ie *core.InvalidInputError
	if errors.As(err, &ie) {
		resp.Errors = ie.Result.Errors
	}
	writeJSONStatus(w, statusCode, resp)
}

// badRequest answers a malformed request body or parameter.
func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	s.respondError(w, r, fmt.Errorf("%w: %s", core.ErrInvalidArgument, msg))
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error alert", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}
