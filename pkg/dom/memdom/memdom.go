// Package memdom is an in-memory implementation of the dom host.
//
// It keeps a plain element tree rooted at a body element, measures heights
// through a pluggable function, dispatches synthetic events, and serializes
// to HTML. It backs the toast tests, the simulator and the playground
// server, where the browser only ever receives serialized snapshots.
//
// A Document is not safe for concurrent use.
package memdom

import (
	"github.com/vango-dev/toaster/pkg/dom"
)

// DefaultHeight is the height reported for every connected element when no
// measure function is configured.
const DefaultHeight = 64

// MeasureFunc computes the rendered height of a connected node.
type MeasureFunc func(n *Node) float64

// Option configures a Document.
type Option func(*Document)

// WithMeasure sets the function used by Node.Height.
func WithMeasure(fn MeasureFunc) Option {
	return func(d *Document) {
		d.measure = fn
	}
}

// WithFixedHeight makes every connected element report height h.
func WithFixedHeight(h float64) Option {
	return WithMeasure(func(*Node) float64 { return h })
}

// Document is an in-memory element tree.
type Document struct {
	body    *Node
	measure MeasureFunc
}

var _ dom.Document = (*Document)(nil)

// NewDocument creates a document with an empty body.
func NewDocument(opts ...Option) *Document {
	d := &Document{}
	for _, opt := range opts {
		opt(d)
	}
	if d.measure == nil {
		d.measure = func(*Node) float64 { return DefaultHeight }
	}
	d.body = &Node{doc: d, tag: "body"}
	return d
}

// Body returns the root element.
func (d *Document) Body() *Node {
	return d.body
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) dom.Element {
	return d.NewElement(tag)
}

// NewElement is CreateElement with the concrete return type.
func (d *Document) NewElement(tag string) *Node {
	return &Node{doc: d, tag: tag}
}
