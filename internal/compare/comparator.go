// Package compare ranks completed runs against each other.
//
// A Comparator stores scenario results by id and computes per-metric
// statistics, pairwise correlations, index trends, IQR outliers and
// coefficient-of-variation significance across any subset of them.
package compare

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vehiclelab/internal/logging"
	"github.com/san-kum/vehiclelab/internal/metrics"
	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/sim"
)

type entry struct {
	scenario *scenario.Scenario
	result   *sim.Result
}

// Comparator is safe for concurrent use. Stored results are treated as
// frozen; callers must not mutate a result after adding it.
type Comparator struct {
	mu  sync.RWMutex
	log *slog.Logger

	entries map[string]entry
	charts  map[string]string

	comparisons map[string]*ComparisonResult
	order       []string

	now func() time.Time
}

func New(logger *slog.Logger) *Comparator {
	return &Comparator{
		log:         logging.OrDefault(logger).With("component", "compare"),
		entries:     make(map[string]entry),
		charts:      make(map[string]string),
		comparisons: make(map[string]*ComparisonResult),
		now:         time.Now,
	}
}

// AddScenarioResult stores res under id, replacing any earlier entry.
func (c *Comparator) AddScenarioResult(id string, sc *scenario.Scenario, res *sim.Result) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty id", ErrInvalidResult)
	case sc == nil:
		return fmt.Errorf("%w: %s has no scenario", ErrInvalidResult, id)
	case res == nil:
		return fmt.Errorf("%w: %s has no result", ErrInvalidResult, id)
	case res.Series == nil:
		return fmt.Errorf("%w: %s has no sample series", ErrInvalidResult, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; ok {
		c.log.Debug("replacing scenario result", "id", id)
	}
	c.entries[id] = entry{scenario: sc, result: res}
	delete(c.charts, id)
	return nil
}

// RemoveScenarioResult drops id and its cached chart. It returns false if
// id was not stored.
func (c *Comparator) RemoveScenarioResult(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return false
	}
	delete(c.entries, id)
	delete(c.charts, id)
	return true
}

// ScenarioIDs returns the stored ids in sorted order.
func (c *Comparator) ScenarioIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Comparator) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Compare analyses the stored results named by ids. Unknown and repeated
// ids are dropped; the order of the rest is kept and drives the trend
// index.
func (c *Comparator) Compare(ids []string, opts Options) (*ComparisonResult, error) {
	names, err := metricNames(opts.Metrics)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := c.entries[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		kept = append(kept, id)
	}
	if len(kept) < 2 {
		return nil, fmt.Errorf("%w: %d of %d ids stored", ErrInsufficientScenarios, len(kept), len(ids))
	}

	values := make(map[string][]float64, len(names))
	for _, name := range names {
		vs := make([]float64, len(kept))
		for i, id := range kept {
			// missing metrics count as zero
			vs[i], _ = c.entries[id].result.Metrics.Get(name)
		}
		values[name] = vs
	}

	res := &ComparisonResult{
		ID:           uuid.New().String(),
		Name:         opts.Name,
		CreatedAt:    c.now(),
		ScenarioIDs:  kept,
		Metrics:      names,
		Stats:        make(map[string]MetricStats, len(names)),
		Trends:       make(map[string]Trend, len(names)),
		Outliers:     make(map[string][]Outlier, len(names)),
		Significance: make(map[string]Significance, len(names)),
	}

	for _, name := range names {
		ms := metricStats(kept, values[name], name)
		res.Stats[name] = ms
		res.Trends[name] = trend(values[name])
		res.Outliers[name] = outliers(kept, values[name])
		res.Significance[name] = significance(ms)
	}
	res.Correlations = correlations(names, values)
	res.Recommendations = recommend(res)

	c.comparisons[res.ID] = res
	c.order = append(c.order, res.ID)

	c.log.Info("comparison stored", "id", res.ID, "scenarios", len(kept),
		"recommendations", len(res.Recommendations))
	return res.clone(), nil
}

func metricNames(requested []string) ([]string, error) {
	if len(requested) == 0 {
		out := make([]string, len(metrics.Names))
		copy(out, metrics.Names)
		return out, nil
	}

	out := make([]string, 0, len(requested))
	seen := make(map[string]bool)
	for _, name := range requested {
		if !metrics.IsKnown(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}

// ComparisonResult looks up a stored comparison.
func (c *Comparator) ComparisonResult(id string) (*ComparisonResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.comparisons[id]
	if !ok {
		return nil, false
	}
	return res.clone(), true
}

// AllComparisonResults returns every stored comparison, oldest first.
func (c *Comparator) AllComparisonResults() []*ComparisonResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*ComparisonResult, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.comparisons[id].clone())
	}
	return out
}

func (c *Comparator) ClearComparisons() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comparisons = make(map[string]*ComparisonResult)
	c.order = nil
}

// Chart plots the speed history of every body in scenario id. Charts are
// cached until the scenario is replaced or removed.
func (c *Comparator) Chart(id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if chart, ok := c.charts[id]; ok {
		return chart, nil
	}
	e, ok := c.entries[id]
	if !ok {
		return "", fmt.Errorf("%w: scenario %s", ErrNotFound, id)
	}

	var series [][]float64
	for _, body := range e.result.Series.BodyIDs() {
		if speeds := e.result.Series.Speeds(body); len(speeds) > 0 {
			series = append(series, speeds)
		}
	}
	if len(series) == 0 {
		return "", fmt.Errorf("%w: scenario %s has no samples", ErrNotFound, id)
	}

	chart := asciigraph.PlotMany(series,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("speed (m/s) - %s", e.scenario.Name)),
	)
	c.charts[id] = chart
	return chart, nil
}
