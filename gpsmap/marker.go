package gpsmap

import (
	"image"

	"github.com/osmgps/gpsmap/geo"
)

// Marker is a positioned image overlay. The anchor point is placed at the
// fraction of the image given by the alignment (0.5/0.5 centers the image
// on the anchor). Markers are owned by the map that created them; the
// caller keeps the returned handle for later mutation or removal, and every
// property change notifies the owner so it can schedule a redraw.
type Marker struct {
	point  geo.Point
	img    image.Image
	xalign float64
	yalign float64
	zorder int

	onChange func()
}

func (mk *Marker) notify() {
	if mk.onChange != nil {
		mk.onChange()
	}
}

// Point returns the marker's geographic anchor.
func (mk *Marker) Point() geo.Point { return mk.point }

// SetPoint moves the marker.
func (mk *Marker) SetPoint(pt geo.Point) {
	mk.point = pt
	mk.notify()
}

// Alignment returns the anchor-to-image alignment fractions.
func (mk *Marker) Alignment() (x, y float64) { return mk.xalign, mk.yalign }

// SetAlignment changes how the image hangs off the anchor point.
func (mk *Marker) SetAlignment(x, y float64) {
	mk.xalign = x
	mk.yalign = y
	mk.notify()
}

// ZOrder returns the marker's stacking order.
func (mk *Marker) ZOrder() int { return mk.zorder }

// SetZOrder changes the stacking order. The paint position among equal
// z-orders is fixed at insertion time; changing the z-order afterwards
// repaints but does not re-sort.
func (mk *Marker) SetZOrder(z int) {
	mk.zorder = z
	mk.notify()
}

// insertMarker inserts mk keeping the slice sorted by z-order ascending,
// equal z-orders in insertion order.
func insertMarker(markers []*Marker, mk *Marker) []*Marker {
	i := len(markers)
	for j, other := range markers {
		if other.zorder > mk.zorder {
			i = j
			break
		}
	}
	markers = append(markers, nil)
	copy(markers[i+1:], markers[i:])
	markers[i] = mk
	return markers
}
