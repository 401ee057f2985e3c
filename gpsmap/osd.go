package gpsmap

import (
	"fmt"
	"math"
)

// OSD is the built-in on-screen-display layer: zoom buttons in the top-left
// corner, a scale bar along the bottom, and an optional center crosshair.
// Clicks on the zoom buttons are consumed, so they never start a pan.
type OSD struct {
	ShowScale     bool
	ShowCrosshair bool
	ShowZoom      bool
}

const (
	osdPad     = 10.0
	osdButton  = 30.0
	osdScaleW  = 100.0 // target scale-bar width in pixels
	crosshairR = 9.0
)

// NewOSD returns an OSD with all controls enabled.
func NewOSD() *OSD {
	return &OSD{ShowScale: true, ShowCrosshair: true, ShowZoom: true}
}

func (o *OSD) Busy() bool { return false }

func (o *OSD) Render(m *Map) {
	dc := m.Canvas()
	if dc == nil {
		return
	}
	if o.ShowZoom {
		o.drawZoomButtons(m)
	}
	if o.ShowScale {
		o.drawScaleBar(m)
	}
	if o.ShowCrosshair {
		o.drawCrosshair(m)
	}
}

func (o *OSD) drawZoomButtons(m *Map) {
	dc := m.Canvas()
	for i, glyph := range []string{"+", "-"} {
		x := osdPad
		y := osdPad + float64(i)*(osdButton+4)

		dc.SetRGBA(1, 1, 1, 0.8)
		dc.DrawRoundedRectangle(x, y, osdButton, osdButton, 4)
		dc.Fill()
		dc.SetRGBA(0.3, 0.3, 0.3, 0.9)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(x, y, osdButton, osdButton, 4)
		dc.Stroke()
		dc.DrawStringAnchored(glyph, x+osdButton/2, y+osdButton/2, 0.5, 0.5)
	}
}

// niceScale rounds d down to a 1/2/5 × 10^k value for the scale-bar label.
func niceScale(d float64) float64 {
	pow := math.Pow(10, math.Floor(math.Log10(d)))
	switch {
	case d/pow >= 5:
		return 5 * pow
	case d/pow >= 2:
		return 2 * pow
	default:
		return pow
	}
}

func (o *OSD) drawScaleBar(m *Map) {
	dc := m.Canvas()
	_, h := m.Size()

	metersPerPixel := m.Scale()
	if metersPerPixel <= 0 {
		return
	}
	meters := niceScale(osdScaleW * metersPerPixel)
	px := meters / metersPerPixel

	label := fmt.Sprintf("%.0f m", meters)
	if meters >= 1000 {
		label = fmt.Sprintf("%.0f km", meters/1000)
	}

	x := osdPad
	y := float64(h) - osdPad

	dc.SetRGBA(0, 0, 0, 0.9)
	dc.SetLineWidth(2)
	dc.DrawLine(x, y, x+px, y)
	dc.DrawLine(x, y-5, x, y)
	dc.DrawLine(x+px, y-5, x+px, y)
	dc.Stroke()
	dc.DrawStringAnchored(label, x+px/2, y-8, 0.5, 0.5)
}

func (o *OSD) drawCrosshair(m *Map) {
	dc := m.Canvas()
	w, h := m.Size()
	x, y := float64(w)/2, float64(h)/2

	dc.SetRGBA(0, 0, 0, 0.55)
	dc.SetLineWidth(1.5)
	dc.DrawCircle(x, y, crosshairR)
	for _, d := range [][4]float64{
		{x - crosshairR - 4, y, x - crosshairR + 3, y},
		{x + crosshairR - 3, y, x + crosshairR + 4, y},
		{x, y - crosshairR - 4, x, y - crosshairR + 3},
		{x, y + crosshairR - 3, x, y + crosshairR + 4},
	} {
		dc.DrawLine(d[0], d[1], d[2], d[3])
	}
	dc.Stroke()
}

// ButtonPress consumes presses landing on the zoom buttons.
func (o *OSD) ButtonPress(m *Map, x, y float64) bool {
	if !o.ShowZoom {
		return false
	}
	if x < osdPad || x > osdPad+osdButton {
		return false
	}
	switch {
	case y >= osdPad && y <= osdPad+osdButton:
		m.ZoomIn()
		return true
	case y >= osdPad+osdButton+4 && y <= osdPad+2*osdButton+4:
		m.ZoomOut()
		return true
	}
	return false
}

var _ Layer = (*OSD)(nil)
