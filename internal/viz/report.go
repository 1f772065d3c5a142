package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vehiclelab/internal/compare"
	"github.com/san-kum/vehiclelab/internal/metrics"
	"github.com/san-kum/vehiclelab/internal/sim"
)

const reportWidth = 64

var labelCell = MetricLabel.Width(28)

// PerformanceReport renders the metrics of one run.
func PerformanceReport(res *sim.Result) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(strings.ToUpper(res.Scenario.Name)) + "\n")
	b.WriteString(StatusStyle(res.State).Render(strings.ToUpper(res.State.String())))
	b.WriteString(MetricLabel.Render(fmt.Sprintf("  t=%.2fs  bodies=%d", res.ElapsedTime, len(res.Series))) + "\n\n")

	for _, name := range metrics.Names {
		v, _ := res.Metrics.Get(name)
		b.WriteString(labelCell.Render(name) + MetricValue.Render(fmt.Sprintf("%.4f", v)) + "\n")
	}
	return GlassPanel.Render(b.String())
}

// SpeedPlot draws the speed history of every body in res.
func SpeedPlot(res *sim.Result, height, width int) string {
	ids := res.Series.BodyIDs()
	var data [][]float64
	for _, id := range ids {
		if s := res.Series.Speeds(id); len(s) > 0 {
			data = append(data, s)
		}
	}
	if len(data) == 0 {
		return Subtle.Render("no samples")
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("speed (m/s) - "+strings.Join(ids, ", ")),
	)
}

// ComparisonReport renders a comparison: per-metric stats, the strongest
// correlations and the recommendations.
func ComparisonReport(res *compare.ComparisonResult) string {
	var sections []string

	title := res.Name
	if title == "" {
		title = res.ID
	}
	header := HeaderStyle.Render("COMPARISON "+title) + "\n" +
		MetricLabel.Render("scenarios: "+strings.Join(res.ScenarioIDs, ", "))
	sections = append(sections, header)

	var st strings.Builder
	for _, name := range res.Metrics {
		s := res.Stats[name]
		sig := res.Significance[name]
		fmt.Fprintf(&st, "%s %s  best %s  worst %s  cv %.3f (%s)\n",
			labelCell.Render(name),
			MetricValue.Render(fmt.Sprintf("%10.3f ± %-8.3f", s.Mean, s.StdDev)),
			s.Best, s.Worst, sig.CoefficientOfVariation, sig.Level)
		if out := res.Outliers[name]; len(out) > 0 {
			ids := make([]string, len(out))
			for i, o := range out {
				ids[i] = o.ScenarioID
			}
			st.WriteString(KeyHint.Render("    outliers: "+strings.Join(ids, ", ")) + "\n")
		}
	}
	sections = append(sections, BoxWithTitle("Metrics", strings.TrimRight(st.String(), "\n"), reportWidth+32))

	if corr := strongCorrelations(res); corr != "" {
		sections = append(sections, BoxWithTitle("Correlations", corr, reportWidth+32))
	}

	var rec strings.Builder
	if len(res.Recommendations) == 0 {
		rec.WriteString(Subtle.Render("none"))
	}
	for i, r := range res.Recommendations {
		if i > 0 {
			rec.WriteString("\n")
		}
		rec.WriteString(priorityStyle(r.Priority).Render(fmt.Sprintf("[%-6s]", r.Priority)) + " " + r.Message)
	}
	sections = append(sections, BoxWithTitle("Recommendations", rec.String(), reportWidth+32))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func strongCorrelations(res *compare.ComparisonResult) string {
	keys := make([]string, 0, len(res.Correlations))
	for k, c := range res.Correlations {
		if c.Strength != compare.StrengthNone && c.Strength != compare.StrengthWeak {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		c := res.Correlations[k]
		lines[i] = fmt.Sprintf("%s %+.3f %s", labelCell.Width(52).Render(k), c.Coefficient, c.Strength)
	}
	return strings.Join(lines, "\n")
}

func priorityStyle(p compare.Priority) lipgloss.Style {
	switch p {
	case compare.PriorityHigh:
		return SparkLow.Bold(true)
	case compare.PriorityMedium:
		return SparkMid
	}
	return Subtle
}
