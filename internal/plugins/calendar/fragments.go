package calendar

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// DatePreviewFragment renders the live confirmation shown under a date
// field: the date's description on success, the parse error otherwise.
func DatePreviewFragment(description, errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var html string
		switch {
		case errMsg != "":
			html = `<p class="date-preview date-preview-error" role="alert">` +
				templ.EscapeString(errMsg) + `</p>`
		case description != "":
			html = `<p class="date-preview date-preview-ok">Valid date: ` +
				templ.EscapeString(description) + `</p>`
		default:
			html = `<p class="date-preview"></p>`
		}
		_, err := io.WriteString(w, html)
		return err
	})
}
