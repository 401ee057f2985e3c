package gpsmap

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/osmgps/gpsmap/geo"
)

// Layout drives the widget for one frame: consume input, run deferred
// recomposition, and present the backing surface shifted by any in-flight
// drag displacement.
func (m *Map) Layout(gtx layout.Context) layout.Dimensions {
	if m.closed {
		return layout.Dimensions{}
	}

	size := gtx.Constraints.Max
	if m.surface == nil || size.X != m.vp.width || size.Y != m.vp.height {
		m.Resize(size.X, size.Y)
	}

	m.handlePointer(gtx)
	m.handleKeys(gtx)

	if m.redrawIdle.fire() {
		m.redraw()
	}
	// a pending fast-path expose needs no work of its own: presenting the
	// frame below repaints at the current drag offset
	m.dragExpose.fire()

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, m)

	if m.surface != nil {
		off := op.Offset(image.Pt(m.drag.dx, m.drag.dy)).Push(gtx.Ops)
		paint.NewImageOp(m.surface).Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		off.Pop()
	}

	return layout.Dimensions{Size: size}
}

func (m *Map) handlePointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  m,
			Kinds:   pointer.Press | pointer.Release | pointer.Drag | pointer.Scroll | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -1, Max: 1},
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		x, y := int(e.Position.X), int(e.Position.Y)
		switch e.Kind {
		case pointer.Press:
			gtx.Execute(key.FocusCmd{Tag: m})
			consumed := false
			for _, l := range m.layers {
				if l.ButtonPress(m, float64(e.Position.X), float64(e.Position.Y)) {
					consumed = true
					break
				}
			}
			m.drag.press(x, y, m.vp.mapX, m.vp.mapY, consumed)

		case pointer.Drag:
			if m.drag.motion(x, y) {
				m.vp.autoCenter = false
				m.dragExpose.request()
			}

		case pointer.Release:
			if mapX, mapY, ok := m.drag.release(x, y); ok {
				m.adoptDragOrigin(mapX, mapY)
			}

		case pointer.Cancel:
			// cancel events carry no usable position
			if mapX, mapY, ok := m.drag.cancel(); ok {
				m.adoptDragOrigin(mapX, mapY)
			}

		case pointer.Scroll:
			m.scrollZoom(e)
		}
	}
}

func (m *Map) adoptDragOrigin(mapX, mapY int) {
	m.vp.mapX = mapX
	m.vp.mapY = mapY
	m.vp.centerUpdate()
	m.redrawIdle.request()
}

// scrollZoom zooms around the cursor: zooming in moves the center halfway
// toward the cursor, zooming out mirrors the cursor's offset away from it.
func (m *Map) scrollZoom(e pointer.Event) {
	pt := m.vp.screenToGeographic(int(e.Position.X), int(e.Position.Y))
	lat, lon := pt.Degrees()
	cLat, cLon := geo.Rad2Deg(m.vp.rlat), geo.Rad2Deg(m.vp.rlon)

	switch {
	case e.Scroll.Y < 0 && m.vp.zoom < m.vp.maxZoom:
		m.SetCenterAndZoom(cLat+(lat-cLat)/2, cLon+(lon-cLon)/2, m.vp.zoom+1)
	case e.Scroll.Y > 0 && m.vp.zoom > m.vp.minZoom:
		m.SetCenterAndZoom(cLat+(cLat-lat), cLon+(cLon-lon), m.vp.zoom-1)
	}
}

func (m *Map) handleKeys(gtx layout.Context) {
	if len(m.bindings) == 0 {
		return
	}
	filters := make([]event.Filter, 0, len(m.bindings)+1)
	filters = append(filters, key.FocusFilter{Target: m})
	for name := range m.bindings {
		filters = append(filters, key.Filter{Focus: m, Name: name})
	}

	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		if action, bound := m.bindings[e.Name]; bound {
			m.handleKey(action)
		}
	}
}
