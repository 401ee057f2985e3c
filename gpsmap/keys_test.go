package gpsmap

import "testing"

func TestHandleKeyPansByTenthOfWidth(t *testing.T) {
	tests := []struct {
		name   string
		action Key
		dx, dy int
	}{
		{"left", KeyLeft, -64, 0},
		{"right", KeyRight, 64, 0},
		{"up", KeyUp, 0, -64},
		{"down", KeyDown, 0, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMap(640, 480)
			x0, y0 := m.vp.mapX, m.vp.mapY

			m.handleKey(tt.action)
			if m.vp.mapX != x0+tt.dx || m.vp.mapY != y0+tt.dy {
				t.Errorf("origin moved by (%d,%d), want (%d,%d)",
					m.vp.mapX-x0, m.vp.mapY-y0, tt.dx, tt.dy)
			}
		})
	}
}

func TestHandleKeyZoom(t *testing.T) {
	m := newTestMap(640, 480)
	m.SetZoom(7)

	m.handleKey(KeyZoomIn)
	if m.Zoom() != 8 {
		t.Errorf("zoom = %d after zoom-in, want 8", m.Zoom())
	}
	m.handleKey(KeyZoomOut)
	if m.Zoom() != 7 {
		t.Errorf("zoom = %d after zoom-out, want 7", m.Zoom())
	}
}

func TestHandleKeyFullscreenHook(t *testing.T) {
	m := newTestMap(640, 480)
	called := false
	m.OnFullscreen(func() { called = true })

	m.handleKey(KeyFullscreen)
	if !called {
		t.Error("fullscreen hook not called")
	}
}

func TestSetKeyboardShortcut(t *testing.T) {
	m := New(DefaultOptions())
	if len(m.bindings) != 0 {
		t.Fatal("bindings not empty by default")
	}
	m.SetKeyboardShortcut(KeyZoomIn, "+")
	m.SetKeyboardShortcut(KeyZoomOut, "-")
	if len(m.bindings) != 2 {
		t.Errorf("bindings = %d, want 2", len(m.bindings))
	}
	if m.bindings["+"] != KeyZoomIn {
		t.Error("binding lookup failed")
	}
}
