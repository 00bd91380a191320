package memdom

import (
	"strings"

	"github.com/vango-dev/toaster/pkg/dom"
)

type property struct {
	name  string
	value string
}

// Node is an element in a Document.
type Node struct {
	doc       *Document
	tag       string
	attrs     []property
	styles    []property
	text      string
	raw       string
	children  []*Node
	parent    *Node
	listeners map[string][]func()
}

var _ dom.Element = (*Node)(nil)

// Tag returns the element tag name.
func (n *Node) Tag() string { return n.tag }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	if n.text != "" || len(n.children) == 0 {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.Text())
	}
	return b.String()
}

// InnerHTML returns markup set through SetInnerHTML.
func (n *Node) InnerHTML() string { return n.raw }

func (n *Node) SetAttribute(name, value string) {
	n.attrs = setProperty(n.attrs, name, value)
}

func (n *Node) Attribute(name string) (string, bool) {
	return getProperty(n.attrs, name)
}

// AttributeValue returns the attribute value, or "" when absent.
func (n *Node) AttributeValue(name string) string {
	v, _ := n.Attribute(name)
	return v
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

func (n *Node) RemoveAttribute(name string) {
	n.attrs = deleteProperty(n.attrs, name)
}

func (n *Node) SetStyleProperty(name, value string) {
	n.styles = setProperty(n.styles, name, value)
}

// StyleProperty returns an inline style property.
func (n *Node) StyleProperty(name string) (string, bool) {
	return getProperty(n.styles, name)
}

func (n *Node) SetTextContent(text string) {
	n.detachChildren()
	n.raw = ""
	n.text = text
}

func (n *Node) SetInnerHTML(markup string) {
	n.detachChildren()
	n.text = ""
	n.raw = markup
}

func (n *Node) AppendChild(child dom.Element) {
	c, ok := child.(*Node)
	if !ok || c == n {
		return
	}
	c.detach()
	c.parent = n
	n.text, n.raw = "", ""
	n.children = append(n.children, c)
}

func (n *Node) InsertBefore(child, ref dom.Element) {
	c, ok := child.(*Node)
	if !ok || c == n {
		return
	}
	r, _ := ref.(*Node)
	if r == nil || r.parent != n || r == c {
		n.AppendChild(c)
		return
	}
	c.detach()
	idx := n.indexOf(r)
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = c
	c.parent = n
	n.text, n.raw = "", ""
}

func (n *Node) RemoveChild(child dom.Element) {
	c, ok := child.(*Node)
	if !ok || c.parent != n {
		return
	}
	c.detach()
}

func (n *Node) ReplaceChild(replacement, old dom.Element) {
	o, ok := old.(*Node)
	if !ok || o.parent != n {
		return
	}
	r, ok := replacement.(*Node)
	if !ok {
		return
	}
	if r == o {
		return
	}
	r.detach()
	idx := n.indexOf(o)
	n.children[idx] = r
	r.parent = n
	o.parent = nil
}

func (n *Node) IsConnected() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == n.doc.body {
			return true
		}
	}
	return false
}

func (n *Node) Height() float64 {
	if !n.IsConnected() {
		return 0
	}
	return n.doc.measure(n)
}

func (n *Node) AddEventListener(event string, fn func()) {
	if n.listeners == nil {
		n.listeners = make(map[string][]func())
	}
	n.listeners[event] = append(n.listeners[event], fn)
}

// Dispatch runs every listener registered for event and reports whether
// any ran.
func (n *Node) Dispatch(event string) bool {
	fns := n.listeners[event]
	for _, fn := range fns {
		fn()
	}
	return len(fns) > 0
}

// Click dispatches a click event.
func (n *Node) Click() bool {
	return n.Dispatch("click")
}

// Find returns the first descendant (depth-first, document order) that
// matches, or nil.
func (n *Node) Find(match func(*Node) bool) *Node {
	for _, c := range n.children {
		if match(c) {
			return c
		}
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns all matching descendants in document order.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	for _, c := range n.children {
		if match(c) {
			out = append(out, c)
		}
		out = append(out, c.FindAll(match)...)
	}
	return out
}

// ByAttr matches nodes carrying the attribute. With a value, the attribute
// must also equal it.
func ByAttr(name string, value ...string) func(*Node) bool {
	return func(n *Node) bool {
		v, ok := n.Attribute(name)
		if !ok {
			return false
		}
		return len(value) == 0 || v == value[0]
	}
}

// ByTag matches nodes with the tag name.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool { return n.tag == tag }
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	idx := p.indexOf(n)
	if idx >= 0 {
		p.children = append(p.children[:idx], p.children[idx+1:]...)
	}
	n.parent = nil
}

func (n *Node) detachChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func setProperty(props []property, name, value string) []property {
	for i := range props {
		if props[i].name == name {
			props[i].value = value
			return props
		}
	}
	return append(props, property{name: name, value: value})
}

func getProperty(props []property, name string) (string, bool) {
	for _, p := range props {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

func deleteProperty(props []property, name string) []property {
	for i, p := range props {
		if p.name == name {
			return append(props[:i], props[i+1:]...)
		}
	}
	return props
}
