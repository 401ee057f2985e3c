package gpsmap

import (
	"image/color"

	"github.com/osmgps/gpsmap/geo"
)

// Track is an ordered polyline of geographic points, drawn over the base
// map. The GPS trip history is rendered through the same path. Like
// markers, a track notifies its owning map when it changes.
type Track struct {
	points    []geo.Point
	color     color.Color
	lineWidth float64

	onChange func()
}

// NewTrack returns an empty track with the default style, a semi-transparent
// blue line.
func NewTrack() *Track {
	return &Track{
		color:     color.NRGBA{R: 96, G: 96, B: 255, A: 153},
		lineWidth: 4,
	}
}

func (t *Track) notify() {
	if t.onChange != nil {
		t.onChange()
	}
}

// AddPoint appends a point to the track.
func (t *Track) AddPoint(pt geo.Point) {
	t.points = append(t.points, pt)
	t.notify()
}

// Points returns the track's points. The slice is shared; treat it as
// read-only.
func (t *Track) Points() []geo.Point { return t.points }

// Length returns the number of points.
func (t *Track) Length() int { return len(t.points) }

// Clear removes all points.
func (t *Track) Clear() {
	t.points = t.points[:0]
	t.notify()
}

// SetColor changes the line color.
func (t *Track) SetColor(c color.Color) {
	t.color = c
	t.notify()
}

// SetLineWidth changes the stroke width in pixels.
func (t *Track) SetLineWidth(w float64) {
	t.lineWidth = w
	t.notify()
}
