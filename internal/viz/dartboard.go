package viz

import (
	"math"

	"github.com/san-kum/pilab/internal/montecarlo"
)

// Dartboard draws Monte Carlo samples over the square [-1,1]² on a w x h cell
// canvas, with the unit circle outlined.
func Dartboard(points []montecarlo.Point, w, h int) *Canvas {
	c := NewCanvas(w, h)
	maxX := float64(w*2 - 1)
	maxY := float64(h*4 - 1)

	toDot := func(x, y float64) (int, int) {
		return int(math.Round((x + 1) / 2 * maxX)), int(math.Round((1 - y) / 2 * maxY))
	}

	for _, p := range points {
		c.Set(toDot(p.X, p.Y))
	}
	c.DrawEllipse(maxX/2, maxY/2, maxX/2, maxY/2, 4*(w+h))
	return c
}
