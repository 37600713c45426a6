// Package pages holds the standalone HTML components the service renders
// outside any plugin.
package pages

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
)

// ErrorPage renders an error for a browser request in place of the JSON error
// body API clients receive.
func ErrorPage(code int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<div class="error-page" data-status="`+strconv.Itoa(code)+`">`+
				`<h1>`+templ.EscapeString(http.StatusText(code))+`</h1>`+
				`<p>`+templ.EscapeString(message)+`</p>`+
				`</div>`)
		return err
	})
}

// ErrorFragment renders an error as an inline alert for HTMX requests, which
// swap it into the element that issued the request.
func ErrorFragment(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p class="error" role="alert">`+templ.EscapeString(message)+`</p>`)
		return err
	})
}
