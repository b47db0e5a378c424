package maprender

import (
	"bytes"

	"github.com/buslane/buslane/pkg/util"
	"github.com/fogleman/gg"
)

type RenderOptions struct {
	Width  int
	Height int
	DPI    int
}

const (
	DefaultWidth  = 1000
	DefaultHeight = 600
	DefaultDPI    = 120

	// Viewport padding: 10% of the bounding box per axis with a floor
	// in projected metres so single-stop routes still get a viewport
	paddingFraction = 0.10
	paddingFloor    = 200.0

	maxLabelLength = 40
)

// Roughly matplotlib's tab10 qualitative palette
var routePalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}

	return o
}

// RenderPNG draws each series as a distinct-coloured polyline with
// start/end markers labelled by stop name, on a white background, and
// returns the encoded image.
func RenderPNG(series []RouteSeries, options RenderOptions) ([]byte, error) {
	options = options.withDefaults()

	width := float64(options.Width)
	height := float64(options.Height)
	scale := float64(options.DPI) / float64(DefaultDPI)

	projected := make([][][2]float64, len(series))

	minX, minY := 0.0, 0.0
	maxX, maxY := 0.0, 0.0
	first := true

	for i, routeSeries := range series {
		projected[i] = make([][2]float64, len(routeSeries.Points))

		for j, point := range routeSeries.Points {
			x, y := projectMercator(point.Lon, point.Lat)
			projected[i][j] = [2]float64{x, y}

			if first {
				minX, maxX, minY, maxY = x, x, y, y
				first = false
				continue
			}

			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}

	padX := max((maxX-minX)*paddingFraction, paddingFloor)
	padY := max((maxY-minY)*paddingFraction, paddingFloor)
	minX, maxX = minX-padX, maxX+padX
	minY, maxY = minY-padY, maxY+padY

	// Axes scale independently, stretching the geometry to fill the
	// requested canvas
	toCanvas := func(x float64, y float64) (float64, float64) {
		canvasX := (x - minX) / (maxX - minX) * width
		canvasY := height - (y-minY)/(maxY-minY)*height

		return canvasX, canvasY
	}

	dc := gg.NewContext(options.Width, options.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	lineWidth := 2.0 * scale
	markerRadius := 4.0 * scale

	for i, routeSeries := range series {
		dc.SetHexColor(routePalette[i%len(routePalette)])

		for _, xy := range projected[i] {
			dc.LineTo(toCanvas(xy[0], xy[1]))
		}
		dc.SetLineWidth(lineWidth)
		dc.Stroke()

		startLabel := labelForPoint(routeSeries.Points[0], "Start")
		endLabel := labelForPoint(routeSeries.Points[len(routeSeries.Points)-1], "End")

		startX, startY := toCanvas(projected[i][0][0], projected[i][0][1])
		endX, endY := toCanvas(projected[i][len(projected[i])-1][0], projected[i][len(projected[i])-1][1])

		dc.DrawCircle(startX, startY, markerRadius)
		dc.Fill()
		dc.DrawCircle(endX, endY, markerRadius)
		dc.Fill()

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawString(startLabel, startX+4*scale, startY-4*scale)
		dc.DrawString(endLabel, endX+4*scale, endY-4*scale)
	}

	var buffer bytes.Buffer
	if err := dc.EncodePNG(&buffer); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func labelForPoint(point Point, fallback string) string {
	label := point.StopName
	if label == "" {
		label = point.StopID
	}
	if label == "" {
		label = fallback
	}

	return util.TrimString(label, maxLabelLength)
}
