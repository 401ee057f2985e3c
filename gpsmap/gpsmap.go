// Package gpsmap implements a slippy-map Gio widget: raster tiles overlaid
// with GPS tracks, positioned image markers and on-screen-display layers.
// The widget composes the scene into a backing surface and keeps panning
// cheap by blitting that surface at the drag offset while a full
// recomposition is deferred to the next event-loop turn.
package gpsmap

import (
	"image"
	"log/slog"
	"math"

	"gioui.org/io/key"
	"github.com/fogleman/gg"

	"github.com/osmgps/gpsmap/geo"
	"github.com/osmgps/gpsmap/tiles"
)

// Options configures a Map at construction.
type Options struct {
	MinZoom int
	MaxZoom int
	Zoom    int

	// initial top-left corner in world pixels; SetCenter is the usual way
	// to position the map, these exist for state restoration
	MapX int
	MapY int

	AutoCenter          bool
	AutoCenterThreshold float64

	RecordTripHistory bool
	ShowTripHistory   bool
	ShowGPSPoint      bool

	// GPS glyph radii: R1 the solid ball, R2 the translucent accuracy ring
	GPSPointR1 int
	GPSPointR2 int

	// pixels of movement before a press becomes a drag
	DragLimit int

	// Tiles supplies the base raster; nil renders overlays on a plain
	// background.
	Tiles *tiles.Manager

	Logger *slog.Logger
}

// DefaultOptions returns the construction defaults.
func DefaultOptions() Options {
	return Options{
		MinZoom:             1,
		MaxZoom:             18,
		Zoom:                3,
		MapX:                890,
		MapY:                515,
		AutoCenter:          true,
		AutoCenterThreshold: 0.25,
		RecordTripHistory:   true,
		ShowTripHistory:     true,
		ShowGPSPoint:        true,
		GPSPointR1:          10,
		GPSPointR2:          20,
		DragLimit:           10,
	}
}

// Map is the widget. All mutation happens on the host's event loop; the
// only cross-goroutine traffic is tile-load wake-ups through the redraw
// scheduler.
type Map struct {
	vp   viewport
	drag dragState
	log  *slog.Logger

	tiles   *tiles.Manager
	surface *image.RGBA
	dc      *gg.Context

	markers []*Marker
	layers  []Layer
	tracks  []*Track

	trip       *Track
	gps        *geo.Point
	gpsHeading float64

	recordTrip bool
	showTrip   bool
	showGPS    bool
	gpsR1      int
	gpsR2      int

	redrawIdle deferred
	dragExpose deferred

	bindings     map[key.Name]Key
	onFullscreen func()
	onChanged    func()
	onZoom       func(int)

	closed bool
}

// New constructs a Map. The widget is not paintable until the first Layout
// (or explicit Resize) allocates its surface.
func New(opts Options) *Map {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	m := &Map{
		log:        log,
		tiles:      opts.Tiles,
		trip:       NewTrack(),
		gpsHeading: math.NaN(),
		recordTrip: opts.RecordTripHistory,
		showTrip:   opts.ShowTripHistory,
		showGPS:    opts.ShowGPSPoint,
		gpsR1:      opts.GPSPointR1,
		gpsR2:      opts.GPSPointR2,
	}
	m.vp = viewport{
		zoom:                clampZoom(opts.Zoom, opts.MinZoom, opts.MaxZoom),
		minZoom:             opts.MinZoom,
		maxZoom:             opts.MaxZoom,
		mapX:                opts.MapX,
		mapY:                opts.MapY,
		autoCenter:          opts.AutoCenter,
		autoCenterThreshold: opts.AutoCenterThreshold,
	}
	m.vp.onChanged = func() {
		if m.onChanged != nil {
			m.onChanged()
		}
	}
	m.vp.onZoom = func(zoom int) {
		m.log.Debug("zoom changed", "zoom", zoom)
		if m.onZoom != nil {
			m.onZoom(zoom)
		}
	}
	m.vp.redraw = m.redrawIdle.request
	m.drag.limit = opts.DragLimit
	m.trip.onChange = m.redrawIdle.request

	if m.tiles != nil {
		m.tiles.SetOnLoad(m.redrawIdle.request)
	}

	m.vp.centerUpdate()
	return m
}

// SetInvalidator registers the host window wake-up called whenever deferred
// work is scheduled, typically a function draining into Window.Invalidate.
func (m *Map) SetInvalidator(wake func()) {
	m.redrawIdle.wake = wake
	m.dragExpose.wake = wake
}

// Close cancels pending deferred work so nothing fires against a freed
// surface. The tile manager has its own Close; the map does not own it.
func (m *Map) Close() {
	m.closed = true
	m.redrawIdle.cancel()
	m.dragExpose.cancel()
}

// QueueRedraw schedules a full recomposition on the next frame. Safe to call
// from any goroutine.
func (m *Map) QueueRedraw() { m.redrawIdle.request() }

// OnChanged registers fn to run whenever the map center or zoom changes.
func (m *Map) OnChanged(fn func()) { m.onChanged = fn }

// OnZoomChanged registers fn to run with the new zoom level whenever it
// changes.
func (m *Map) OnZoomChanged(fn func(int)) { m.onZoom = fn }

// OnFullscreen registers the host hook for the fullscreen key action; the
// widget itself cannot reach the window.
func (m *Map) OnFullscreen(fn func()) { m.onFullscreen = fn }

// Center returns the current map center.
func (m *Map) Center() geo.Point {
	return geo.Point{Rlat: m.vp.rlat, Rlon: m.vp.rlon}
}

// Zoom returns the current zoom level.
func (m *Map) Zoom() int { return m.vp.zoom }

// SetCenter centers the map on a latitude/longitude in degrees and disables
// auto-centering.
func (m *Map) SetCenter(lat, lon float64) { m.vp.setCenter(lat, lon) }

// SetZoom requests a zoom level and returns the applied, clamped value.
func (m *Map) SetZoom(zoom int) int { return m.vp.setZoom(zoom) }

// ZoomIn increases the zoom level by one.
func (m *Map) ZoomIn() int { return m.vp.setZoom(m.vp.zoom + 1) }

// ZoomOut decreases the zoom level by one.
func (m *Map) ZoomOut() int { return m.vp.setZoom(m.vp.zoom - 1) }

// SetCenterAndZoom recenters, then zooms. The order matters: the zoom
// change derives the new pixel origin from the freshly set center.
func (m *Map) SetCenterAndZoom(lat, lon float64, zoom int) {
	m.vp.setCenter(lat, lon)
	m.vp.setZoom(zoom)
}

// ZoomFitBBox zooms and centers the map so both corners of the bounding box
// fit inside the window.
func (m *Map) ZoomFitBBox(lat1, lat2, lon1, lon2 float64) {
	m.vp.zoomFitBBox(lat1, lat2, lon1, lon2)
}

// Scroll shifts the map by dx, dy pixels.
func (m *Map) Scroll(dx, dy int) { m.vp.scroll(dx, dy) }

// BBox returns the geographic corners of the current window.
func (m *Map) BBox() (topLeft, bottomRight geo.Point) { return m.vp.bbox() }

// ScreenToGeographic converts a window pixel position to a location.
func (m *Map) ScreenToGeographic(x, y int) geo.Point {
	return m.vp.screenToGeographic(x, y)
}

// GeographicToScreen converts a location to a window pixel position,
// consistent with what is currently painted during an in-flight drag.
func (m *Map) GeographicToScreen(pt geo.Point) (x, y int) {
	return m.vp.geographicToScreen(pt, m.drag.dx, m.drag.dy)
}

// Scale returns the meters per pixel at the map center.
func (m *Map) Scale() float64 {
	return geo.Scale(m.vp.zoom, m.vp.rlat)
}

// AutoCenter reports whether the map recenters itself on new GPS fixes.
func (m *Map) AutoCenter() bool { return m.vp.autoCenter }

// SetAutoCenter enables or disables recentering on GPS fixes. User drags
// and explicit SetCenter calls disable it.
func (m *Map) SetAutoCenter(enabled bool) { m.vp.autoCenter = enabled }

// GPSAdd records a new GPS fix in degrees. Heading is in degrees; pass NaN
// when unknown and the glyph omits its direction arrow. The fix is appended
// to the trip history when recording is enabled, a redraw is scheduled, and
// the auto-center policy is applied.
func (m *Map) GPSAdd(lat, lon, heading float64) {
	fix := geo.PointFromDegrees(lat, lon)
	m.gps = &fix
	m.gpsHeading = geo.Deg2Rad(heading)

	if m.recordTrip {
		m.trip.points = append(m.trip.points, fix)
	}

	m.redrawIdle.request()
	m.vp.autoCenterFix(fix)
}

// GPS returns the most recent fix, or nil before the first GPSAdd.
func (m *Map) GPS() *geo.Point { return m.gps }

// TripHistory returns the recorded trip track.
func (m *Map) TripHistory() *Track { return m.trip }

// ClearTripHistory empties the recorded trip. The history is never cleared
// implicitly by redraws.
func (m *Map) ClearTripHistory() {
	m.trip.points = m.trip.points[:0]
	m.redrawIdle.request()
}

// AddMarker adds an image centered on the given location with z-order 0.
func (m *Map) AddMarker(lat, lon float64, img image.Image) *Marker {
	return m.AddMarkerAligned(lat, lon, img, 0.5, 0.5, 0)
}

// AddMarkerZ adds a centered image with an explicit z-order.
func (m *Map) AddMarkerZ(lat, lon float64, img image.Image, zorder int) *Marker {
	return m.AddMarkerAligned(lat, lon, img, 0.5, 0.5, zorder)
}

// AddMarkerAligned adds an image marker with explicit alignment and
// z-order. Markers paint lowest z-order first; equal z-orders keep their
// insertion order. The returned handle stays valid for mutation until the
// marker is removed.
func (m *Map) AddMarkerAligned(lat, lon float64, img image.Image, xalign, yalign float64, zorder int) *Marker {
	if img == nil {
		panic("gpsmap: AddMarker with nil image")
	}
	mk := &Marker{
		point:    geo.PointFromDegrees(lat, lon),
		img:      img,
		xalign:   xalign,
		yalign:   yalign,
		zorder:   zorder,
		onChange: m.redrawIdle.request,
	}
	m.markers = insertMarker(m.markers, mk)
	m.redrawIdle.request()
	return mk
}

// RemoveMarker removes a marker, reporting whether it was present.
func (m *Map) RemoveMarker(mk *Marker) bool {
	for i, other := range m.markers {
		if other == mk {
			m.markers = append(m.markers[:i], m.markers[i+1:]...)
			mk.onChange = nil
			m.redrawIdle.request()
			return true
		}
	}
	return false
}

// RemoveAllMarkers clears the marker store.
func (m *Map) RemoveAllMarkers() {
	for _, mk := range m.markers {
		mk.onChange = nil
	}
	m.markers = nil
	m.redrawIdle.request()
}

// AddLayer appends an overlay layer; layers render in registration order.
func (m *Map) AddLayer(l Layer) {
	m.layers = append(m.layers, l)
	m.redrawIdle.request()
}

// RemoveLayer removes a layer, reporting whether it was present.
func (m *Map) RemoveLayer(l Layer) bool {
	for i, other := range m.layers {
		if other == l {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.redrawIdle.request()
			return true
		}
	}
	return false
}

// RemoveAllLayers clears the layer registry.
func (m *Map) RemoveAllLayers() {
	m.layers = nil
	m.redrawIdle.request()
}

// AddTrack overlays a polyline track on the map.
func (m *Map) AddTrack(t *Track) {
	t.onChange = m.redrawIdle.request
	m.tracks = append(m.tracks, t)
	m.redrawIdle.request()
}

// RemoveTrack removes a track, reporting whether it was present.
func (m *Map) RemoveTrack(t *Track) bool {
	for i, other := range m.tracks {
		if other == t {
			m.tracks = append(m.tracks[:i], m.tracks[i+1:]...)
			t.onChange = nil
			m.redrawIdle.request()
			return true
		}
	}
	return false
}

// Canvas exposes the backing drawing context for layers rendering
// themselves during recomposition. Nil before the first size allocation.
func (m *Map) Canvas() *gg.Context { return m.dc }

// Size returns the widget's window size in pixels.
func (m *Map) Size() (w, h int) { return m.vp.width, m.vp.height }
