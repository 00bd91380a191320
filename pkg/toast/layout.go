package toast

// Slot is the computed visual placement of one toast.
type Slot struct {
	// Offset is the distance from the anchored edge in pixels. Bottom
	// anchored stacks use negative offsets that include the toast's own
	// height.
	Offset float64

	// ZIndex orders toasts; the newest has the highest value.
	ZIndex int

	// Visible is false for toasts beyond the max visible count. They keep
	// their place in the layout.
	Visible bool
}

// Layout places a newest-first stack of toasts with the given heights.
func Layout(heights []float64, gap float64, v Vertical, maxVisible int) []Slot {
	slots := make([]Slot, len(heights))
	var acc float64
	for i, h := range heights {
		if h < 0 {
			h = 0
		}
		offset := acc
		if v == Bottom {
			offset = -(acc + h)
		}
		slots[i] = Slot{
			Offset:  offset,
			ZIndex:  len(heights) - (i + 1),
			Visible: i+1 <= maxVisible,
		}
		acc += h + gap
	}
	return slots
}
