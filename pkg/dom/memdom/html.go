package memdom

import (
	"bytes"
	"io"
	"strings"
)

// voidElements cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// OuterHTML serializes the node and its subtree.
func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	_ = n.WriteHTML(&buf)
	return buf.String()
}

// WriteHTML streams the node and its subtree to w.
func (n *Node) WriteHTML(w io.Writer) error {
	var b strings.Builder
	n.writeHTML(&b)
	_, err := io.WriteString(w, b.String())
	return err
}

func (n *Node) writeHTML(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(n.tag)

	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.value))
		b.WriteByte('"')
	}

	if len(n.styles) > 0 {
		b.WriteString(` style="`)
		for i, s := range n.styles {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(escapeAttr(s.name))
			b.WriteByte(':')
			b.WriteString(escapeAttr(s.value))
		}
		b.WriteByte('"')
	}

	b.WriteByte('>')
	if voidElements[n.tag] {
		return
	}

	switch {
	case n.raw != "":
		b.WriteString(n.raw)
	case n.text != "":
		b.WriteString(escapeHTML(n.text))
	default:
		for _, c := range n.children {
			c.writeHTML(b)
		}
	}

	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for HTML attribute values, including whitespace
// that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
