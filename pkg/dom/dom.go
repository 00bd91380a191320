// Package dom defines the rendering-host boundary used by the toast engine.
//
// The engine never touches pixels. It builds and mutates a small tree
// through these primitives and reads back one measurement (element height)
// for stacking. Implementations exist for an in-memory tree (memdom) and
// can be written for a browser (syscall/js) or a terminal renderer.
//
// Implementations need not be safe for concurrent use: the toast engine
// serializes every call it makes.
package dom

// Element is a node in the host tree.
type Element interface {
	// SetAttribute sets or replaces an attribute.
	SetAttribute(name, value string)

	// Attribute returns an attribute value and whether it is present.
	Attribute(name string) (string, bool)

	// RemoveAttribute deletes an attribute. Missing attributes are ignored.
	RemoveAttribute(name string)

	// SetStyleProperty sets an inline style property, including custom
	// properties such as "--offset".
	SetStyleProperty(name, value string)

	// SetTextContent replaces all children with a text node.
	SetTextContent(text string)

	// SetInnerHTML replaces all children with trusted markup.
	SetInnerHTML(markup string)

	// AppendChild adds child as the last child, detaching it from any
	// previous parent.
	AppendChild(child Element)

	// InsertBefore inserts child before ref. A nil or foreign ref appends.
	InsertBefore(child, ref Element)

	// RemoveChild detaches child. Non-children are ignored.
	RemoveChild(child Element)

	// ReplaceChild swaps old for replacement in place.
	ReplaceChild(replacement, old Element)

	// IsConnected reports whether the element is attached to the document.
	IsConnected() bool

	// Height returns the rendered height in pixels, or 0 when detached.
	Height() float64

	// AddEventListener registers fn for the named event (e.g. "click").
	AddEventListener(event string, fn func())
}

// Document creates elements.
type Document interface {
	CreateElement(tag string) Element
}
