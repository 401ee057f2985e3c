package gpsmap

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/osmgps/gpsmap/geo"
	"github.com/osmgps/gpsmap/tiles"
)

var (
	colorWhite = color.White
	colorBlue  = color.NRGBA{B: 255, A: 255}
)

// Resize allocates the backing surface for a new window size, keeping the
// current center, and recomposes synchronously. Layout calls this on size
// allocation; it can also be called directly to drive the widget headless.
func (m *Map) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	m.vp.resize(w, h)
	m.surface = image.NewRGBA(image.Rect(0, 0, w, h))
	m.dc = gg.NewContextForRGBA(m.surface)
	m.log.Debug("allocated surface", "width", w, "height", h)
	m.redraw()
}

// redraw recomposes the scene into the backing surface, reporting whether
// it did. It is a no-op before the first size allocation. Recomposition is
// skipped while a layer is mid-animation or a drag is in flight; in the
// latter window the fast-path blit owns the screen, and recomposing would
// paint overlays against a base that is shown shifted.
func (m *Map) redraw() bool {
	if m.surface == nil {
		return false
	}
	for _, l := range m.layers {
		if l.Busy() {
			return false
		}
	}
	if m.drag.dragging {
		return false
	}

	// recomposition always starts from an un-offset base
	m.drag.dx = 0
	m.drag.dy = 0

	m.dc.SetRGB(1, 1, 1)
	m.dc.Clear()

	m.drawTiles()

	if m.showTrip && m.trip.Length() > 1 {
		m.drawTrack(m.trip)
	}
	for _, t := range m.tracks {
		if t.Length() > 1 {
			m.drawTrack(t)
		}
	}
	for _, mk := range m.markers {
		m.drawMarker(mk)
	}
	if m.showGPS && m.gps != nil {
		m.drawGPS()
	}
	for _, l := range m.layers {
		l.Render(m)
	}
	return true
}

func (m *Map) drawTiles() {
	if m.tiles == nil {
		return
	}
	ts := tiles.TileSize
	t0 := tiles.TileForPixel(m.vp.zoom, m.vp.mapX, m.vp.mapY)

	for tx := t0.X; tx*ts < m.vp.mapX+m.vp.width; tx++ {
		for ty := t0.Y; ty*ts < m.vp.mapY+m.vp.height; ty++ {
			sx := tx*ts - m.vp.mapX
			sy := ty*ts - m.vp.mapY
			tile := tiles.Tile{X: tx, Y: ty, Zoom: m.vp.zoom}

			if tile.Valid() {
				if img, ok := m.tiles.Cached(tile); ok {
					m.dc.DrawImage(img, sx, sy)
					continue
				}
			}
			m.drawNullTile(sx, sy, tile.Valid())
		}
	}
}

// drawNullTile paints the placeholder for a tile that is missing or lies
// outside the world: a flat fill, with a faint grid when the tile is still
// expected to arrive.
func (m *Map) drawNullTile(sx, sy int, inWorld bool) {
	ts := float64(tiles.TileSize)
	x, y := float64(sx), float64(sy)

	m.dc.SetRGB(0.93, 0.93, 0.93)
	m.dc.DrawRectangle(x, y, ts, ts)
	m.dc.Fill()

	if !inWorld {
		return
	}
	m.dc.SetRGB(0.8, 0.8, 0.8)
	m.dc.SetLineWidth(1)
	for i := 1; i < 4; i++ {
		off := float64(i) * ts / 4
		m.dc.DrawLine(x+off, y, x+off, y+ts)
		m.dc.DrawLine(x, y+off, x+ts, y+off)
	}
	m.dc.Stroke()
}

func (m *Map) drawTrack(t *Track) {
	m.dc.SetColor(t.color)
	m.dc.SetLineWidth(t.lineWidth)
	for i, pt := range t.points {
		x := float64(geo.LonToPixelX(m.vp.zoom, pt.Rlon) - m.vp.mapX)
		y := float64(geo.LatToPixelY(m.vp.zoom, pt.Rlat) - m.vp.mapY)
		if i == 0 {
			m.dc.MoveTo(x, y)
		} else {
			m.dc.LineTo(x, y)
		}
	}
	m.dc.Stroke()
}

func (m *Map) drawMarker(mk *Marker) {
	x := geo.LonToPixelX(m.vp.zoom, mk.point.Rlon) - m.vp.mapX
	y := geo.LatToPixelY(m.vp.zoom, mk.point.Rlat) - m.vp.mapY

	b := mk.img.Bounds()
	m.dc.DrawImage(mk.img, x-int(mk.xalign*float64(b.Dx())), y-int(mk.yalign*float64(b.Dy())))
}

// drawGPS paints the "you are here" glyph: a translucent accuracy ring, an
// optional heading arrow, and a radial-gradient ball.
func (m *Map) drawGPS() {
	x := float64(geo.LonToPixelX(m.vp.zoom, m.gps.Rlon) - m.vp.mapX)
	y := float64(geo.LatToPixelY(m.vp.zoom, m.gps.Rlat) - m.vp.mapY)
	r := float64(m.gpsR1)
	r2 := float64(m.gpsR2)

	if r2 > 0 {
		m.dc.SetRGBA(0.75, 0.75, 0.75, 0.4)
		m.dc.DrawCircle(x, y, r2)
		m.dc.Fill()
		m.dc.SetRGBA(0.55, 0.55, 0.55, 0.4)
		m.dc.SetLineWidth(1.5)
		m.dc.DrawCircle(x, y, r2)
		m.dc.Stroke()
	}

	if r > 0 {
		if !math.IsNaN(m.gpsHeading) {
			h := m.gpsHeading
			m.dc.MoveTo(x-r*math.Cos(h), y-r*math.Sin(h))
			m.dc.LineTo(x+3*r*math.Sin(h), y-3*r*math.Cos(h))
			m.dc.LineTo(x+r*math.Cos(h), y+r*math.Sin(h))
			m.dc.ClosePath()
			m.dc.SetRGBA(0.3, 0.3, 1.0, 0.5)
			m.dc.FillPreserve()
			m.dc.SetRGBA(0, 0, 0, 0.5)
			m.dc.SetLineWidth(1)
			m.dc.Stroke()
		}

		grad := gg.NewRadialGradient(x-r/5, y-r/5, r/5, x, y, r)
		grad.AddColorStop(0, colorWhite)
		grad.AddColorStop(1, colorBlue)
		m.dc.SetFillStyle(grad)
		m.dc.DrawCircle(x, y, r)
		m.dc.Fill()

		m.dc.SetRGBA(0, 0, 0, 1)
		m.dc.SetLineWidth(1)
		m.dc.DrawCircle(x, y, r)
		m.dc.Stroke()
	}
}
