package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pilab/internal/locale"
)

// displayDigits caps how much of a long value is echoed to the terminal.
const displayDigits = 60

type Row struct {
	Label string
	Value string
}

// Outcome is what the summary block shows for one computation.
type Outcome struct {
	Locale         locale.Locale
	Method         locale.Message
	Value          string
	Reference      string
	AbsError       float64
	AccurateDigits int
	Engine         string
	FellBack       bool
	Elapsed        time.Duration
	// ReportPath is shown when the full value was written to a file.
	ReportPath string
}

func (o Outcome) rows() []Row {
	loc := o.Locale
	engine := o.Engine
	if o.FellBack {
		engine += " (fallback)"
	}
	rows := []Row{
		{loc.T(o.Method), ""},
		{loc.T(locale.ResultLabel), truncate(o.Value)},
		{loc.T(locale.ReferenceLabel), truncate(o.Reference)},
		{loc.T(locale.AbsErrorLabel), fmt.Sprintf("%.3e", o.AbsError)},
		{loc.T(locale.AccurateDigitsLabel), fmt.Sprintf("%d", o.AccurateDigits)},
		{loc.T(locale.EngineLabel), engine},
		{loc.T(locale.ElapsedLabel), o.Elapsed.Round(time.Microsecond).String()},
	}
	if o.ReportPath != "" {
		rows = append(rows, Row{"→", o.ReportPath})
	}
	return rows
}

// Summary renders the outcome as a titled, aligned block.
func Summary(o Outcome) string {
	rows := o.rows()

	labelWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.Label); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(GradientText(o.Locale.T(locale.SystemName), CurrentTheme.Primary, CurrentTheme.Secondary))
	b.WriteString("\n")
	b.WriteString(Separator(labelWidth + 40))
	b.WriteString("\n")

	for i, r := range rows {
		if i == 0 {
			b.WriteString(HeaderStyle.Render(r.Label))
			b.WriteString("\n")
			continue
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(r.Label))
		b.WriteString("  " + MetricLabel.Render(r.Label) + pad + "  " + MetricValue.Render(r.Value) + "\n")
	}

	b.WriteString(Separator(labelWidth + 40))
	b.WriteString("\n")
	b.WriteString(SparkHigh.Render(o.Locale.T(locale.Done)))
	b.WriteString("\n")
	return b.String()
}

func truncate(s string) string {
	if len(s) <= displayDigits+2 {
		return s
	}
	return s[:displayDigits+2] + "…"
}
