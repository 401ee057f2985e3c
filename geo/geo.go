// Package geo implements the spherical Web-Mercator projection used by
// slippy-map tile servers. It maps between geographic coordinates (stored
// in radians), world pixel coordinates at a given zoom level, and tile
// coordinates. All functions are pure.
package geo

import "math"

const (
	// TileSize is the edge length of a raster map tile in pixels.
	TileSize = 256

	// EarthRadius is the WGS84 equatorial radius in meters.
	EarthRadius = 6378137.0

	// MaxLatitude is the largest latitude the projection can represent,
	// atan(sinh(pi)) in degrees. Latitudes beyond it are clamped rather
	// than rejected, so the transform never produces infinities.
	MaxLatitude = 85.05113
)

var maxLatRad = Deg2Rad(MaxLatitude)

// Point is a geographic location. Latitude and longitude are radians.
type Point struct {
	Rlat float64
	Rlon float64
}

// PointFromDegrees converts a latitude/longitude pair in degrees.
func PointFromDegrees(lat, lon float64) Point {
	return Point{Rlat: Deg2Rad(lat), Rlon: Deg2Rad(lon)}
}

// Degrees returns the point's latitude and longitude in degrees.
func (p Point) Degrees() (lat, lon float64) {
	return Rad2Deg(p.Rlat), Rad2Deg(p.Rlon)
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 { return rad * 180 / math.Pi }

// WorldSize returns the edge length in pixels of the projected world at the
// given zoom level: 256 * 2^zoom.
func WorldSize(zoom int) int { return TileSize << uint(zoom) }

func clampLat(rlat float64) float64 {
	if rlat > maxLatRad {
		return maxLatRad
	}
	if rlat < -maxLatRad {
		return -maxLatRad
	}
	return rlat
}

// LonToPixelX projects a longitude in radians to a world pixel x coordinate.
func LonToPixelX(zoom int, rlon float64) int {
	return int((rlon + math.Pi) / (2 * math.Pi) * float64(WorldSize(zoom)))
}

// LatToPixelY projects a latitude in radians to a world pixel y coordinate.
// The latitude is clamped to ±MaxLatitude before the Mercator transform.
func LatToPixelY(zoom int, rlat float64) int {
	latm := math.Atanh(math.Sin(clampLat(rlat)))
	return int((1 - latm/math.Pi) / 2 * float64(WorldSize(zoom)))
}

// PixelXToLon is the inverse of LonToPixelX.
func PixelXToLon(zoom, pixelX int) float64 {
	return float64(pixelX)/float64(WorldSize(zoom))*2*math.Pi - math.Pi
}

// PixelYToLat is the inverse of LatToPixelY.
func PixelYToLat(zoom, pixelY int) float64 {
	latm := (1 - 2*float64(pixelY)/float64(WorldSize(zoom))) * math.Pi
	return math.Asin(math.Tanh(latm))
}

// Scale returns the ground resolution in meters per pixel at the given
// latitude and zoom level.
func Scale(zoom int, rlat float64) float64 {
	return math.Cos(rlat) * math.Pi * EarthRadius / float64(int(1)<<uint(7+zoom))
}

// ZoomForBBox returns the largest zoom level in [minZoom, maxZoom] at which
// the bounding box spanned by the two latitudes and longitudes fits inside a
// viewport of the given pixel dimensions. Candidate zooms are evaluated from
// maxZoom down; minZoom is returned when not even that fits.
func ZoomForBBox(height, width, minZoom, maxZoom int, rlat1, rlat2, rlon1, rlon2 float64) int {
	for zoom := maxZoom; zoom > minZoom; zoom-- {
		dx := LonToPixelX(zoom, rlon1) - LonToPixelX(zoom, rlon2)
		dy := LatToPixelY(zoom, rlat1) - LatToPixelY(zoom, rlat2)
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if dx <= width && dy <= height {
			return zoom
		}
	}
	return minZoom
}
