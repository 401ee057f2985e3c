package gpsmap

import "gioui.org/io/key"

// Key is a logical keyboard action the map can perform. Bindings are empty
// by default; the host application associates actions with key names
// through SetKeyboardShortcut.
type Key int

const (
	KeyFullscreen Key = iota
	KeyZoomIn
	KeyZoomOut
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// keyboard pan step divisor: one step moves the window by width/10
const scrollStepDiv = 10

// SetKeyboardShortcut binds a key name to a map action. Binding any
// shortcut enables keyboard handling.
func (m *Map) SetKeyboardShortcut(action Key, name key.Name) {
	if m.bindings == nil {
		m.bindings = make(map[key.Name]Key)
	}
	m.bindings[name] = action
}

func (m *Map) handleKey(action Key) {
	step := m.vp.width / scrollStepDiv
	switch action {
	case KeyFullscreen:
		if m.onFullscreen != nil {
			m.onFullscreen()
		}
	case KeyZoomIn:
		m.ZoomIn()
	case KeyZoomOut:
		m.ZoomOut()
	case KeyUp:
		m.vp.mapY -= step
		m.vp.centerUpdate()
		m.redrawIdle.request()
	case KeyDown:
		m.vp.mapY += step
		m.vp.centerUpdate()
		m.redrawIdle.request()
	case KeyLeft:
		m.vp.mapX -= step
		m.vp.centerUpdate()
		m.redrawIdle.request()
	case KeyRight:
		m.vp.mapX += step
		m.vp.centerUpdate()
		m.redrawIdle.request()
	}
}
