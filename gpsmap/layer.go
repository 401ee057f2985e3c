package gpsmap

// Layer is an overlay composited on top of the base map: on-screen-display
// controls, custom annotations and the like. Layers render back-to-front in
// registration order.
//
// ButtonPress gives each layer first refusal on a pointer press; returning
// true consumes the press, and the map will not interpret the rest of that
// press sequence as a pan. Busy lets a mid-animation layer suppress full
// recompositions to keep its animation fluid.
type Layer interface {
	Render(m *Map)
	ButtonPress(m *Map, x, y float64) bool
	Busy() bool
}
