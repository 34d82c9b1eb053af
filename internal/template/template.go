// Package template reads and writes the metadata templates embedded in a
// media page's wikitext: the {{Geograph}} identifier, the two location
// templates, and the credit line. It also derives candidate location records
// from an authoritative database row.
package template

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrBadTemplate marks a page whose embedded templates cannot be parsed:
// missing or duplicated {{Geograph}}, or a structurally broken location
// template. Callers skip the page and log it.
var ErrBadTemplate = eris.New("template: malformed template")

// span is a half-open [start, end) byte range of one template in the text.
type span struct {
	start, end int
}

// findTemplates locates every top-level {{name ...}} template, matching the
// name case-insensitively and honouring nested braces.
func findTemplates(text, name string) []span {
	var spans []span
	lower := strings.ToLower(text)
	needle := "{{" + strings.ToLower(name)

	i := 0
	for {
		j := strings.Index(lower[i:], needle)
		if j < 0 {
			return spans
		}
		start := i + j
		after := start + len(needle)
		// Guard against prefix matches like {{Geograph2commons}}.
		if after < len(text) {
			switch text[after] {
			case '|', '}', ' ', '\n', '\t':
			default:
				i = start + 2
				continue
			}
		}

		depth := 0
		end := -1
		for p := start; p+1 < len(text); p++ {
			switch {
			case text[p] == '{' && text[p+1] == '{':
				depth++
				p++
			case text[p] == '}' && text[p+1] == '}':
				depth--
				p++
				if depth == 0 {
					end = p + 1
				}
			}
			if end >= 0 {
				break
			}
		}
		if end < 0 {
			// Unterminated template; nothing sensible beyond here.
			return spans
		}
		spans = append(spans, span{start, end})
		i = end
	}
}

// GridimageID extracts the numeric Geograph identifier from the page's
// {{Geograph|id|author}} template. Exactly one such template must exist.
func GridimageID(text string) (int64, error) {
	spans := findTemplates(text, "Geograph")
	if len(spans) != 1 {
		return 0, eris.Wrapf(ErrBadTemplate, "found %d Geograph templates", len(spans))
	}
	s := spans[0]
	fields := strings.Split(text[s.start+2:s.end-2], "|")
	if len(fields) < 2 {
		return 0, eris.Wrap(ErrBadTemplate, "Geograph template has no id field")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return 0, eris.Wrapf(ErrBadTemplate, "Geograph id %q is not numeric", fields[1])
	}
	return id, nil
}
