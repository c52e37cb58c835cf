package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	GradientTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// applyTheme restyles the shared styles from t.
func applyTheme(t Theme) {
	GradientTitle = GradientTitle.Foreground(t.Secondary)
	Subtle = Subtle.Foreground(t.Muted)
	MetricValue = MetricValue.Foreground(t.Accent)
	HeaderStyle = HeaderStyle.Foreground(t.Text)
	SparkHigh = SparkHigh.Foreground(t.Success)
	SparkMid = SparkMid.Foreground(t.Warning)
	SparkLow = SparkLow.Foreground(t.Error)
}

// GradientText creates a gradient effect on text using color interpolation.
// Colors that do not parse as #rrggbb fall back to white.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	start := parseHex(string(startColor))
	end := parseHex(string(endColor))

	var result strings.Builder
	n := len(runes)

	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		blended := start.BlendRgb(end, t).Clamped()

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(blended.Hex()))
		result.WriteString(style.Render(string(c)))
	}

	return result.String()
}

// SparklineChart renders a mini sparkline from values. Low values are good
// when lowerIsBetter is set, which flips the coloring.
func SparklineChart(values []float64, width int, lowerIsBetter bool) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}

		score := norm
		if lowerIsBetter {
			score = 1 - norm
		}
		c := string(chars[idx])
		switch {
		case score > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case score > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}

	return result.String()
}

// Separator is a muted rule with a centered diamond.
func Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}

func parseHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}
