package compare

import (
	"errors"
	"time"
)

var (
	// ErrInsufficientScenarios is returned by Compare when fewer than two of
	// the requested ids are stored.
	ErrInsufficientScenarios = errors.New("compare: at least two stored scenarios are required")

	// ErrInvalidResult rejects a scenario result with a missing field.
	ErrInvalidResult = errors.New("compare: invalid scenario result")

	ErrUnknownMetric = errors.New("compare: unknown metric")
	ErrNotFound      = errors.New("compare: not found")
)

const (
	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
	StrengthNone     = "none"

	DirectionPositive = "positive"
	DirectionNegative = "negative"
	DirectionFlat     = "flat"

	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"

	KindPerformance = "performance"
	KindCorrelation = "correlation"
	KindOutlier     = "outlier"
)

// Options narrow a comparison. An empty Metrics list means all of them.
type Options struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Metrics []string `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

type MetricStats struct {
	Values []float64 `json:"values"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Mean   float64   `json:"mean"`
	StdDev float64   `json:"stddev"`
	Range  float64   `json:"range"`
	Best   string    `json:"best_scenario_id"`
	Worst  string    `json:"worst_scenario_id"`
}

type Correlation struct {
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"`
}

type Trend struct {
	Slope     float64 `json:"slope"`
	Direction string  `json:"direction"`
}

type Outlier struct {
	ScenarioID string  `json:"scenario_id"`
	Value      float64 `json:"value"`
}

type Significance struct {
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	IsSignificant          bool    `json:"is_significant"`
	Level                  string  `json:"level"`
}

type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return "unknown"
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type Recommendation struct {
	Kind     string   `json:"type"`
	Priority Priority `json:"priority"`
	Metric   string   `json:"metric"`
	Message  string   `json:"message"`
}

// ComparisonResult is immutable once stored. Compare and the lookup methods
// hand out deep copies.
type ComparisonResult struct {
	ID              string                  `json:"comparison_id"`
	Name            string                  `json:"name,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	ScenarioIDs     []string                `json:"scenario_ids"`
	Metrics         []string                `json:"metrics"`
	Stats           map[string]MetricStats  `json:"metric_stats"`
	Correlations    map[string]Correlation  `json:"correlations"`
	Trends          map[string]Trend        `json:"trends"`
	Outliers        map[string][]Outlier    `json:"outliers"`
	Significance    map[string]Significance `json:"significance"`
	Recommendations []Recommendation        `json:"recommendations"`
}

func (r *ComparisonResult) clone() *ComparisonResult {
	out := *r
	out.ScenarioIDs = cloneSlice(r.ScenarioIDs)
	out.Metrics = cloneSlice(r.Metrics)
	out.Recommendations = cloneSlice(r.Recommendations)

	if r.Stats != nil {
		out.Stats = make(map[string]MetricStats, len(r.Stats))
		for k, v := range r.Stats {
			v.Values = cloneSlice(v.Values)
			out.Stats[k] = v
		}
	}
	if r.Outliers != nil {
		out.Outliers = make(map[string][]Outlier, len(r.Outliers))
		for k, v := range r.Outliers {
			out.Outliers[k] = cloneSlice(v)
		}
	}
	out.Correlations = cloneMap(r.Correlations)
	out.Trends = cloneMap(r.Trends)
	out.Significance = cloneMap(r.Significance)
	return &out
}

func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return append(make(S, 0, len(s)), s...)
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
