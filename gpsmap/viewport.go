package gpsmap

import (
	"github.com/osmgps/gpsmap/geo"
)

// viewport owns the map's position state: zoom level and the top-left corner
// of the visible window in world pixel space. The pixel origin is the single
// source of truth; the cached center latitude/longitude is recomputed through
// centerUpdate after every mutation of mapX, mapY or zoom.
type viewport struct {
	zoom    int
	minZoom int
	maxZoom int

	// top-left corner of the window in world pixels
	mapX int
	mapY int

	// window size in pixels
	width  int
	height int

	// derived center, radians
	rlat float64
	rlon float64

	autoCenter          bool
	autoCenterThreshold float64

	onChanged func()
	onZoom    func(int)
	redraw    func()
}

func clampZoom(zoom, lo, hi int) int {
	if zoom < lo {
		return lo
	}
	if zoom > hi {
		return hi
	}
	return zoom
}

func (v *viewport) notifyChanged() {
	if v.onChanged != nil {
		v.onChanged()
	}
}

// centerUpdate recomputes the derived center from the pixel origin and fires
// the changed notification.
func (v *viewport) centerUpdate() {
	v.rlon = geo.PixelXToLon(v.zoom, v.mapX+v.width/2)
	v.rlat = geo.PixelYToLat(v.zoom, v.mapY+v.height/2)
	v.notifyChanged()
}

// setCenter recenters the window on the given location in degrees. Any
// explicit recentering disables auto-centering.
func (v *viewport) setCenter(lat, lon float64) {
	v.autoCenter = false

	v.rlat = geo.Deg2Rad(lat)
	v.rlon = geo.Deg2Rad(lon)

	v.mapX = geo.LonToPixelX(v.zoom, v.rlon) - v.width/2
	v.mapY = geo.LatToPixelY(v.zoom, v.rlat) - v.height/2

	v.redraw()
	v.notifyChanged()
}

// setZoom clamps the requested zoom to the configured bounds and repositions
// the pixel origin so the current center stays centered. Requesting the
// current zoom is a no-op: no redraw, no notification. The applied value is
// returned; callers must not assume it equals the request.
func (v *viewport) setZoom(zoom int) int {
	if zoom == v.zoom {
		return v.zoom
	}

	v.zoom = clampZoom(zoom, v.minZoom, v.maxZoom)
	v.mapX = geo.LonToPixelX(v.zoom, v.rlon) - v.width/2
	v.mapY = geo.LatToPixelY(v.zoom, v.rlat) - v.height/2

	v.redraw()
	v.notifyChanged()
	if v.onZoom != nil {
		v.onZoom(v.zoom)
	}
	return v.zoom
}

// scroll shifts the window by dx, dy pixels. Panning is not clamped; the
// window may move past the edge of the tile-covered world.
func (v *viewport) scroll(dx, dy int) {
	v.mapX += dx
	v.mapY += dy
	v.centerUpdate()
	v.redraw()
}

// zoomFitBBox zooms and recenters so both corners of the bounding box fit
// inside the window.
func (v *viewport) zoomFitBBox(lat1, lat2, lon1, lon2 float64) {
	zoom := geo.ZoomForBBox(v.height, v.width, v.minZoom, v.maxZoom,
		geo.Deg2Rad(lat1), geo.Deg2Rad(lat2), geo.Deg2Rad(lon1), geo.Deg2Rad(lon2))
	v.setCenter((lat1+lat2)/2, (lon1+lon2)/2)
	v.setZoom(zoom)
}

// resize adopts a new window size, keeping the current center centered.
func (v *viewport) resize(w, h int) {
	v.width = w
	v.height = h
	v.mapX = geo.LonToPixelX(v.zoom, v.rlon) - w/2
	v.mapY = geo.LatToPixelY(v.zoom, v.rlat) - h/2
	v.notifyChanged()
}

// bbox returns the top-left and bottom-right corners of the window.
func (v *viewport) bbox() (topLeft, bottomRight geo.Point) {
	topLeft = geo.Point{
		Rlat: geo.PixelYToLat(v.zoom, v.mapY),
		Rlon: geo.PixelXToLon(v.zoom, v.mapX),
	}
	bottomRight = geo.Point{
		Rlat: geo.PixelYToLat(v.zoom, v.mapY+v.height),
		Rlon: geo.PixelXToLon(v.zoom, v.mapX+v.width),
	}
	return topLeft, bottomRight
}

// screenToGeographic converts a window pixel position to a location.
func (v *viewport) screenToGeographic(x, y int) geo.Point {
	return geo.Point{
		Rlat: geo.PixelYToLat(v.zoom, v.mapY+y),
		Rlon: geo.PixelXToLon(v.zoom, v.mapX+x),
	}
}

// geographicToScreen converts a location to a window pixel position. The
// in-flight drag displacement keeps the result consistent with what is
// currently painted rather than the not-yet-committed origin.
func (v *viewport) geographicToScreen(pt geo.Point, dragDX, dragDY int) (x, y int) {
	x = geo.LonToPixelX(v.zoom, pt.Rlon) - v.mapX + dragDX
	y = geo.LatToPixelY(v.zoom, pt.Rlat) - v.mapY + dragDY
	return x, y
}

// autoCenterFix recenters the window on a GPS fix once the fix drifts to or
// beyond the inner band of the window (half size ± an eighth). Recentering
// here mutates the origin directly: it fires the changed notification but
// neither disables auto-centering nor requests a redraw of its own.
func (v *viewport) autoCenterFix(fix geo.Point) {
	if !v.autoCenter {
		return
	}
	x := geo.LonToPixelX(v.zoom, fix.Rlon) - v.mapX
	y := geo.LatToPixelY(v.zoom, fix.Rlat) - v.mapY

	if x <= v.width/2-v.width/8 || x >= v.width/2+v.width/8 ||
		y <= v.height/2-v.height/8 || y >= v.height/2+v.height/8 {
		v.mapX = geo.LonToPixelX(v.zoom, fix.Rlon) - v.width/2
		v.mapY = geo.LatToPixelY(v.zoom, fix.Rlat) - v.height/2
		v.centerUpdate()
	}
}
