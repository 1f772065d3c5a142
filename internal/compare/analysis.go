package compare

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/vehiclelab/internal/metrics"
	"github.com/san-kum/vehiclelab/internal/stats"
)

const (
	outlierFence        = 1.5
	significantCV       = 0.10
	highCV              = 0.20
	rangeShareOfMean    = 0.20
	correlationToReport = 0.7
)

// lowerIsBetter lists metrics whose best scenario has the minimum value.
var lowerIsBetter = map[string]bool{
	metrics.MetricTotalEnergyConsumption: true,
}

func metricStats(ids []string, values []float64, metric string) MetricStats {
	lo, hi := stats.MinMaxIndex(values)
	ms := MetricStats{
		Values: values,
		Min:    values[lo],
		Max:    values[hi],
		Mean:   stats.Mean(values),
		StdDev: stats.PopulationStdDev(values),
		Best:   ids[hi],
		Worst:  ids[lo],
	}
	ms.Range = ms.Max - ms.Min
	if lowerIsBetter[metric] {
		ms.Best, ms.Worst = ids[lo], ids[hi]
	}
	return ms
}

func strength(r float64) string {
	a := math.Abs(r)
	switch {
	case a >= 0.8:
		return StrengthStrong
	case a >= 0.6:
		return StrengthModerate
	case a >= 0.3:
		return StrengthWeak
	}
	return StrengthNone
}

func correlations(names []string, values map[string][]float64) map[string]Correlation {
	out := make(map[string]Correlation)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			r := stats.Pearson(values[names[i]], values[names[j]])
			out[pairKey(names[i], names[j])] = Correlation{Coefficient: r, Strength: strength(r)}
		}
	}
	return out
}

func pairKey(a, b string) string { return a + "_" + b }

func trend(values []float64) Trend {
	slope := stats.OLSSlope(values)
	t := Trend{Slope: slope, Direction: DirectionFlat}
	if slope > 0 {
		t.Direction = DirectionPositive
	} else if slope < 0 {
		t.Direction = DirectionNegative
	}
	return t
}

func outliers(ids []string, values []float64) []Outlier {
	lo, hi := stats.IQRBounds(values, outlierFence)
	out := make([]Outlier, 0)
	for i, v := range values {
		if v < lo || v > hi {
			out = append(out, Outlier{ScenarioID: ids[i], Value: v})
		}
	}
	return out
}

func significance(ms MetricStats) Significance {
	cv := 0.0
	if ms.Mean != 0 {
		cv = ms.StdDev / ms.Mean
	}
	s := Significance{CoefficientOfVariation: cv, IsSignificant: cv > significantCV, Level: LevelLow}
	switch {
	case cv > highCV:
		s.Level = LevelHigh
	case cv > significantCV:
		s.Level = LevelMedium
	}
	return s
}

// improvement is the spread of a metric relative to its minimum, in percent.
func improvement(ms MetricStats) float64 {
	if ms.Min == 0 {
		return 0
	}
	return (ms.Max - ms.Min) / ms.Min * 100
}

func recommend(res *ComparisonResult) []Recommendation {
	recs := make([]Recommendation, 0)

	for _, name := range res.Metrics {
		ms := res.Stats[name]
		if ms.Range > rangeShareOfMean*ms.Mean {
			recs = append(recs, Recommendation{
				Kind:     KindPerformance,
				Priority: PriorityHigh,
				Metric:   name,
				Message: fmt.Sprintf("%s varies widely: %s is best and %s is worst (%.1f%% improvement)",
					name, ms.Best, ms.Worst, improvement(ms)),
			})
		}
	}

	for i := 0; i < len(res.Metrics); i++ {
		for j := i + 1; j < len(res.Metrics); j++ {
			key := pairKey(res.Metrics[i], res.Metrics[j])
			c := res.Correlations[key]
			if math.Abs(c.Coefficient) <= correlationToReport {
				continue
			}
			dir := "positively"
			if c.Coefficient < 0 {
				dir = "negatively"
			}
			recs = append(recs, Recommendation{
				Kind:     KindCorrelation,
				Priority: PriorityMedium,
				Metric:   key,
				Message: fmt.Sprintf("%s and %s are %s correlated (r=%.2f); tune them together",
					res.Metrics[i], res.Metrics[j], dir, c.Coefficient),
			})
		}
	}

	for _, name := range res.Metrics {
		flagged := res.Outliers[name]
		if len(flagged) == 0 {
			continue
		}
		ids := make([]string, len(flagged))
		for i, o := range flagged {
			ids[i] = o.ScenarioID
		}
		recs = append(recs, Recommendation{
			Kind:     KindOutlier,
			Priority: PriorityLow,
			Metric:   name,
			Message:  fmt.Sprintf("%s outside the 1.5×IQR fences for %s: %v", plural(len(ids)), name, ids),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs
}

func plural(n int) string {
	if n == 1 {
		return "1 scenario falls"
	}
	return fmt.Sprintf("%d scenarios fall", n)
}
