package waveform

// Marker geometry for point annotations on the waveform. A point marker
// is a vertical line at a time position with a small label box floating
// above the line's top end.

const (
	markerLabelHeight  = 16
	markerLabelPadding = 2
	// markerLineFraction is how much of the view height the marker line
	// spans, measured from the bottom.
	markerLineFraction = 0.75
)

// MarkerLayout is the computed pixel geometry of one point marker inside
// a view of a given height. Y grows downward, 0 is the view top.
type MarkerLayout struct {
	LineTop    int
	LineBottom int
	LabelTop   int
	LabelH     int
}

// LayoutMarker computes the marker geometry for a view height. The label
// sits directly above the line; when the view is too short for both, the
// label is pinned to the top and the line shortened underneath it.
func LayoutMarker(viewHeight int) MarkerLayout {
	if viewHeight <= 0 {
		return MarkerLayout{}
	}
	lineTop := viewHeight - int(float64(viewHeight)*markerLineFraction)
	labelTop := lineTop - markerLabelHeight - markerLabelPadding
	if labelTop < 0 {
		labelTop = 0
		lineTop = markerLabelHeight + markerLabelPadding
		if lineTop > viewHeight {
			lineTop = viewHeight
		}
	}
	return MarkerLayout{
		LineTop:    lineTop,
		LineBottom: viewHeight,
		LabelTop:   labelTop,
		LabelH:     markerLabelHeight,
	}
}

// Marker is a labeled time position rendered on the waveform, typically
// a timestamp extracted from a video description.
type Marker struct {
	Seconds float64
	Label   string
}
