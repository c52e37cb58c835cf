// Package export writes terminal drawings as SVG files.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/pilab/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// CanvasToSVG draws every set dot of a Braille canvas as a circle.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	dotsX := canvas.Width * 2
	dotsY := canvas.Height * 4
	width := float64(dotsX) * scale
	height := float64(dotsY) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", fill)

	r := scale * 0.4
	for y := 0; y < dotsY; y++ {
		for x := 0; x < dotsX; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// SeriesToSVG draws values as a polyline over their index, skipping values
// that are not finite. It returns "" with fewer than two finite values.
func SeriesToSVG(values []float64, width, height int, stroke string) string {
	type point struct{ x, y float64 }
	points := make([]point, 0, len(values))
	for i, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			points = append(points, point{float64(i), v})
		}
	}
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].x, points[len(points)-1].x
	minY, maxY := points[0].y, points[0].y
	for _, p := range points {
		minY = math.Min(minY, p.y)
		maxY = math.Max(maxY, p.y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, float64(width), float64(height), float64(width), float64(height))
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", stroke)

	for i, p := range points {
		x := (p.x - minX) / rangeX * float64(width)
		y := float64(height) - (p.y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}

// WriteFile writes svg to path, refusing empty drawings.
func WriteFile(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("export: nothing to draw for %s", path)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
