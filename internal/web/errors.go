package web

import (
	"errors"
	"net/http"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/logging"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/web/views"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Action string `json:"action,omitempty"`
}

// respondError logs err with the request id and writes a user message.
// A status of 0 derives the status from err.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	if status == 0 {
		status = statusFor(err)
	}
	msg := userMessage(err)

	log := logging.FromContext(r.Context())
	attrs := []any{"path", r.URL.Path, "method", r.Method, "status", status, "code", msg.Code, "error", err.Error()}
	if status >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request error", attrs...)
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_ = views.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, status, ErrorResponse{Error: msg.Message, Code: msg.Code, Action: msg.Action})
}

func userMessage(err error) core.UserMessage {
	var fe *FormError
	if errors.As(err, &fe) {
		return core.UserMessage{Message: fe.Error(), Action: "Correct the form fields and resubmit", Code: "REQ001"}
	}
	return core.MapError(err)
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		ute *core.UnknownImportTypeError
		pe  *core.ParseError
		fe  *FormError
	)
	switch {
	case errors.As(err, &ute):
		return http.StatusNotFound
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &pe), errors.As(err, &fe), errors.Is(err, core.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusTooManyRequests
	case errors.Is(err, core.ErrReadOnly):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
