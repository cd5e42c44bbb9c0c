package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Block is one typed segment of structured assistant content. Only text
// blocks carry payload the core cares about; other kinds pass through by
// type name so a stored history round-trips.
type Block struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Content holds either plain text or a block sequence, never both.
// The zero value is empty plain text.
type Content struct {
	Text   string
	Blocks []Block
}

// Text wraps a plain string as Content.
func Text(s string) Content {
	return Content{Text: s}
}

// BlockSeq wraps a block sequence as Content.
func BlockSeq(blocks ...Block) Content {
	return Content{Blocks: blocks}
}

// Flat normalises content to a single display string: block text joined
// with newlines, or the plain text as-is.
func (c Content) Flat() string {
	if c.Blocks == nil {
		return c.Text
	}
	parts := make([]string, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Empty reports whether the flattened content is the empty string.
func (c Content) Empty() bool {
	return c.Flat() == ""
}

// MarshalJSON writes plain text as a JSON string and blocks as a JSON array,
// matching the two shapes model providers produce.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.Blocks != nil {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.Text)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Content{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		c.Blocks = nil
		return json.Unmarshal(trimmed, &c.Text)
	case '[':
		c.Text = ""
		return json.Unmarshal(trimmed, &c.Blocks)
	default:
		return fmt.Errorf("content: expected string or block array, got %q", preview(trimmed))
	}
}

func preview(b []byte) string {
	const n = 24
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
