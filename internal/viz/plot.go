package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

// ConvergencePlot graphs values, skipping entries that are not finite.
func ConvergencePlot(values []float64, width, height int, caption string) string {
	data := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return ""
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
