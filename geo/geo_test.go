package geo

import (
	"math"
	"testing"
)

func TestPixelRoundTrip(t *testing.T) {
	lats := []float64{-85, -43.5326, -10, 0, 10, 51.507222, 85}
	lons := []float64{-180, -172.6362, -0.1275, 0, 90, 179}

	for zoom := 1; zoom <= 18; zoom++ {
		// one pixel of truncation, expressed in radians
		tol := 2 * math.Pi / float64(WorldSize(zoom)) * 2

		for _, lat := range lats {
			rlat := Deg2Rad(lat)
			got := PixelYToLat(zoom, LatToPixelY(zoom, rlat))
			if math.Abs(got-rlat) > tol {
				t.Errorf("zoom %d lat %v: round trip drifted by %v rad", zoom, lat, got-rlat)
			}
		}
		for _, lon := range lons {
			rlon := Deg2Rad(lon)
			got := PixelXToLon(zoom, LonToPixelX(zoom, rlon))
			if math.Abs(got-rlon) > tol {
				t.Errorf("zoom %d lon %v: round trip drifted by %v rad", zoom, lon, got-rlon)
			}
		}
	}
}

func TestLatClamp(t *testing.T) {
	for _, zoom := range []int{1, 5, 18} {
		top := LatToPixelY(zoom, Deg2Rad(90))
		if top != LatToPixelY(zoom, Deg2Rad(MaxLatitude)) {
			t.Errorf("zoom %d: pole not clamped to MaxLatitude", zoom)
		}
		if top < 0 || top > WorldSize(zoom) {
			t.Errorf("zoom %d: clamped pole projects outside the world: %d", zoom, top)
		}
		bottom := LatToPixelY(zoom, Deg2Rad(-90))
		if bottom != LatToPixelY(zoom, Deg2Rad(-MaxLatitude)) {
			t.Errorf("zoom %d: south pole not clamped", zoom)
		}
	}
}

func TestWorldSize(t *testing.T) {
	tests := []struct {
		zoom int
		want int
	}{
		{0, 256},
		{1, 512},
		{10, 262144},
		{18, 67108864},
	}
	for _, tt := range tests {
		if got := WorldSize(tt.zoom); got != tt.want {
			t.Errorf("WorldSize(%d) = %d, want %d", tt.zoom, got, tt.want)
		}
	}
}

func TestScale(t *testing.T) {
	// At the equator and zoom 0 the scale is pi*R/128 meters per pixel,
	// i.e. the earth circumference over 256 pixels.
	want := 2 * math.Pi * EarthRadius / 256
	if got := Scale(0, 0); math.Abs(got-want) > 1e-6 {
		t.Errorf("Scale(0, 0) = %v, want %v", got, want)
	}
	// Doubling the zoom level halves the scale.
	if got, half := Scale(4, 0.5), Scale(5, 0.5); math.Abs(got/half-2) > 1e-9 {
		t.Errorf("scale ratio between adjacent zooms = %v, want 2", got/half)
	}
	// Scale shrinks with latitude.
	if Scale(8, Deg2Rad(60)) >= Scale(8, 0) {
		t.Error("scale at 60N should be smaller than at the equator")
	}
}

func TestZoomForBBox(t *testing.T) {
	height, width := 600, 800
	rlat1, rlat2 := Deg2Rad(-44), Deg2Rad(-43)
	rlon1, rlon2 := Deg2Rad(172), Deg2Rad(173)

	zoom := ZoomForBBox(height, width, 1, 18, rlat1, rlat2, rlon1, rlon2)

	if zoom < 1 || zoom > 18 {
		t.Fatalf("zoom %d out of bounds", zoom)
	}
	fits := func(z int) bool {
		dx := LonToPixelX(z, rlon2) - LonToPixelX(z, rlon1)
		dy := LatToPixelY(z, rlat1) - LatToPixelY(z, rlat2)
		return dx <= width && dy <= height
	}
	if !fits(zoom) {
		t.Errorf("bbox does not fit at selected zoom %d", zoom)
	}
	if zoom < 18 && fits(zoom+1) {
		t.Errorf("zoom %d is not maximal, %d also fits", zoom, zoom+1)
	}
}

func TestZoomForBBoxClampsToMin(t *testing.T) {
	// A hemisphere cannot fit in a tiny viewport at any zoom.
	zoom := ZoomForBBox(64, 64, 3, 18, Deg2Rad(-60), Deg2Rad(60), Deg2Rad(-120), Deg2Rad(120))
	if zoom != 3 {
		t.Errorf("got zoom %d, want the minimum 3", zoom)
	}
}

func TestDegreesRoundTrip(t *testing.T) {
	p := PointFromDegrees(-43.5326, 172.6362)
	lat, lon := p.Degrees()
	if math.Abs(lat+43.5326) > 1e-9 || math.Abs(lon-172.6362) > 1e-9 {
		t.Errorf("degrees round trip: got (%v, %v)", lat, lon)
	}
}
