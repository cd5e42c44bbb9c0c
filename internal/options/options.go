// Package options implements the numbered-option protocol: bulleted
// assistant replies are rewritten as a numbered list, and a bare number
// typed by the user resolves back to the option's original text.
package options

import (
	"fmt"
	"regexp"
	"strings"
)

// bulletRe matches a bulleted line: leading whitespace, a bullet marker,
// whitespace, then the option content.
var bulletRe = regexp.MustCompile(`^(\s*)[•\-*]\s+(.+)$`)

// Index maps stringified ordinals ("1".."N") to option text. It belongs to
// the session loop; the engine only ever sees resolved text.
type Index struct {
	opts map[string]string
}

func NewIndex() *Index {
	return &Index{opts: map[string]string{}}
}

// Rebuild rewrites every bulleted line of text as "**N.** content",
// numbering from 1 in document order, and replaces the index with the
// collected options. Non-bullet lines pass through. When at least one
// option was found, a tip naming the valid range is appended. Rebuilding
// always resets the index, so options from an earlier reply never survive.
func (x *Index) Rebuild(text string) string {
	x.opts = map[string]string{}

	lines := strings.Split(text, "\n")
	n := 0
	for i, line := range lines {
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n++
		x.opts[fmt.Sprintf("%d", n)] = m[2]
		lines[i] = fmt.Sprintf("%s**%d.** %s", m[1], n, m[2])
	}

	out := strings.Join(lines, "\n")
	if n > 0 {
		out += fmt.Sprintf("\n\n*💡 Tip: Type a number (1-%d) to select an option*", n)
	}
	return out
}

// Consume resolves raw input against the index: when the trimmed input is a
// decimal number present as a key, the mapped option text is returned with
// selected=true; otherwise raw comes back untouched.
func (x *Index) Consume(raw string) (resolved string, selected bool) {
	trimmed := strings.TrimSpace(raw)
	if !isDigits(trimmed) {
		return raw, false
	}
	text, ok := x.opts[trimmed]
	if !ok {
		return raw, false
	}
	return text, true
}

// Seed replaces the index wholesale (startup quick-start choices).
func (x *Index) Seed(opts map[string]string) {
	x.opts = make(map[string]string, len(opts))
	for k, v := range opts {
		x.opts[k] = v
	}
}

// Len reports how many options are currently selectable.
func (x *Index) Len() int { return len(x.opts) }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
