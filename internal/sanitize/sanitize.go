// Package sanitize cleans user-supplied text before it is stored. Event
// descriptions may carry rich text from the campaign editor; names and date
// expressions must be plain text.
package sanitize

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  *bluemonday.Policy
	plainPolicy *bluemonday.Policy
	policyOnce  sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		richPolicy = bluemonday.UGCPolicy()
		// Editor output uses classes for alignment and code blocks.
		richPolicy.AllowAttrs("class").Globally()
		richPolicy.AllowElements("table", "thead", "tbody", "tr", "td", "th", "caption")
		richPolicy.AllowAttrs("colspan", "rowspan").OnElements("td", "th")

		plainPolicy = bluemonday.StrictPolicy()
	})
	return richPolicy, plainPolicy
}

// HTML strips dangerous markup (scripts, event handlers, javascript: URLs)
// from an event description while keeping safe formatting.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	rich, _ := policies()
	return rich.Sanitize(input)
}

// PlainText removes all markup from input, decodes the entities the strict
// policy leaves behind and collapses runs of whitespace. Calendar, month and
// event names go through it.
func PlainText(input string) string {
	if input == "" {
		return ""
	}
	_, plain := policies()
	return strings.Join(strings.Fields(html.UnescapeString(plain.Sanitize(input))), " ")
}

// DateText cleans a date expression without touching markup-like text:
// "2 days after <The Sundering>" must reach the parser intact. Control
// characters are dropped and whitespace collapsed. Date text is only ever
// written out JSON-encoded or HTML-escaped.
func DateText(input string) string {
	if input == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
	return strings.Join(strings.Fields(cleaned), " ")
}
