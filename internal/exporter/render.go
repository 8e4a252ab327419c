// Package exporter aggregates submission counts and serves them in the
// line-oriented text exposition format scraped by metrics collectors.
package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/sipico/submission-metrics/internal/storage"
)

// MetricName is the single counter family exposed.
const MetricName = "submissions_total"

// Render serializes counts as one `submissions_total{event="<name>"} <total>` line
// per entry, joined by "\n" with no trailing newline. Empty input renders "".
func Render(counts []storage.SubmissionCount) string {
	var b strings.Builder
	for i, c := range counts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(MetricName)
		b.WriteString(`{event=`)
		b.WriteString(quoteLabel(c.EventName))
		b.WriteString(`} `)
		b.WriteString(strconv.FormatInt(c.Total, 10))
	}
	return b.String()
}

// quoteLabel returns s as a JSON string literal, quotes included. HTML
// characters are left alone; quotes, backslashes and control characters are
// escaped, and so is every non-ASCII rune, as \uXXXX (a surrogate pair above
// U+FFFF). Invalid UTF-8 bytes become \ufffd.
func quoteLabel(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s) //nolint:errcheck
	return asciiOnly(strings.TrimSuffix(buf.String(), "\n"))
}

// asciiOnly rewrites every rune above U+007F in s as a JSON \u escape.
func asciiOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
		default:
			fmt.Fprintf(&b, `\u%04x`, r)
		}
	}
	return b.String()
}
