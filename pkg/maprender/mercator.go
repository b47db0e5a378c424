package maprender

import "math"

// Spherical web-mercator (EPSG:3857) forward projection. Working in
// projected metres lets the viewport padding use a real distance floor.

const earthRadius = 6378137.0

func projectMercator(lon float64, lat float64) (float64, float64) {
	x := earthRadius * lon * math.Pi / 180

	latRad := lat * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+latRad/2))

	return x, y
}
