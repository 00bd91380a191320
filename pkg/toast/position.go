package toast

import (
	"strconv"
	"strings"

	terrors "github.com/vango-dev/toaster/internal/errors"
)

// Position is the anchor of the toast stack, "<vertical>-<horizontal>".
type Position string

const (
	TopLeft     Position = "top-left"
	TopRight    Position = "top-right"
	BottomLeft  Position = "bottom-left"
	BottomRight Position = "bottom-right"
)

// Vertical is the anchored screen edge the stack grows away from.
type Vertical string

const (
	Top    Vertical = "top"
	Bottom Vertical = "bottom"
)

// Horizontal is the side toasts slide in from.
type Horizontal string

const (
	Left  Horizontal = "left"
	Right Horizontal = "right"
)

// ParsePosition parses a position such as "bottom-left".
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", terrors.New("T101").
			WithDetail(strconv.Quote(s) + " is not one of top-left, top-right, bottom-left, bottom-right").
			WithSuggestion("Use one of the four corner positions")
	}
	return p, nil
}

// Valid reports whether p is one of the four corners.
func (p Position) Valid() bool {
	switch p {
	case TopLeft, TopRight, BottomLeft, BottomRight:
		return true
	}
	return false
}

// Vertical returns the vertical edge.
func (p Position) Vertical() Vertical {
	y, _, _ := strings.Cut(string(p), "-")
	return Vertical(y)
}

// Horizontal returns the horizontal edge.
func (p Position) Horizontal() Horizontal {
	_, x, _ := strings.Cut(string(p), "-")
	return Horizontal(x)
}

// TranslateX is the off-screen offset used for the mount and unmount slide.
// Right-anchored toasts slide in from further right.
func (p Position) TranslateX() string {
	if p.Horizontal() == Left {
		return "-100%"
	}
	return "100%"
}
