// Package views renders the HTML fragments returned to HTMX callers.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorAlert renders a dismissible error box. Code is shown small so support
// can match it to the logs.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<div class="alert alert-error" role="alert">`+
				`<p class="alert-message">`+templ.EscapeString(message)+`</p>`+
				actionLine(action)+
				`<p class="alert-code">`+templ.EscapeString(code)+`</p>`+
				`</div>`)
		return err
	})
}

func actionLine(action string) string {
	if action == "" {
		return ""
	}
	return `<p class="alert-action">` + templ.EscapeString(action) + `</p>`
}
