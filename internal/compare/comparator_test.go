package compare_test

import (
	"errors"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vehiclelab/internal/compare"
	"github.com/san-kum/vehiclelab/internal/logging"
	"github.com/san-kum/vehiclelab/internal/metrics"
	"github.com/san-kum/vehiclelab/internal/physics"
	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/sim"
)

func resultFor(id string, perf metrics.Performance) (*scenario.Scenario, *sim.Result) {
	sc := scenario.New(id, strings.ToUpper(id))
	samples := make([]metrics.Sample, 0, 10)
	for i := 0; i < 10; i++ {
		v := perf.MaxSpeed * float64(i) / 9
		samples = append(samples, metrics.Sample{
			Time:     float64(i) * 0.1,
			Speed:    v,
			Velocity: physics.Vec3{v, 0, 0},
		})
	}
	return sc, &sim.Result{
		Scenario:    sc,
		State:       sim.Completed,
		ElapsedTime: 1,
		Series:      metrics.Series{"car": samples},
		Metrics:     perf,
	}
}

func scaled(v float64) metrics.Performance {
	return metrics.Performance{
		MaxSpeed:               v,
		AverageSpeed:           v / 2,
		TotalDistance:          v * 10,
		TotalEnergyConsumption: v * 3,
		MaxAcceleration:        5,
		EnergyEfficiency:       1,
	}
}

func add(c *compare.Comparator, id string, perf metrics.Performance) {
	sc, res := resultFor(id, perf)
	Expect(c.AddScenarioResult(id, sc, res)).To(Succeed())
}

var _ = Describe("Comparator", func() {
	var c *compare.Comparator

	BeforeEach(func() {
		c = compare.New(logging.Discard())
	})

	Describe("storing results", func() {
		It("rejects incomplete entries", func() {
			sc, res := resultFor("a", scaled(1))
			Expect(errors.Is(c.AddScenarioResult("", sc, res), compare.ErrInvalidResult)).To(BeTrue())
			Expect(errors.Is(c.AddScenarioResult("a", nil, res), compare.ErrInvalidResult)).To(BeTrue())
			Expect(errors.Is(c.AddScenarioResult("a", sc, nil), compare.ErrInvalidResult)).To(BeTrue())
			Expect(c.Len()).To(BeZero())
		})

		It("overwrites silently on a reused id", func() {
			add(c, "a", scaled(1))
			add(c, "a", scaled(2))
			Expect(c.ScenarioIDs()).To(Equal([]string{"a"}))
		})

		It("returns false when removing an unknown id", func() {
			add(c, "a", scaled(1))
			add(c, "b", scaled(2))

			Expect(c.RemoveScenarioResult("missing")).To(BeFalse())
			Expect(c.Len()).To(Equal(2))

			Expect(c.RemoveScenarioResult("a")).To(BeTrue())
			Expect(c.RemoveScenarioResult("a")).To(BeFalse())
			Expect(c.Len()).To(Equal(1))
		})
	})

	Describe("Compare", func() {
		BeforeEach(func() {
			add(c, "slow", scaled(10))
			add(c, "mid", scaled(20))
			add(c, "fast", scaled(30))
		})

		It("summarises each metric", func() {
			res, err := c.Compare([]string{"slow", "mid", "fast"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ID).NotTo(BeEmpty())
			Expect(res.Metrics).To(Equal(metrics.Names))

			ms := res.Stats[metrics.MetricMaxSpeed]
			Expect(ms.Values).To(Equal([]float64{10, 20, 30}))
			Expect(ms.Mean).To(BeNumerically("~", 20, 1e-12))
			Expect(ms.StdDev).To(BeNumerically("~", math.Sqrt(200.0/3.0), 1e-12))
			Expect(ms.Min).To(Equal(10.0))
			Expect(ms.Max).To(Equal(30.0))
			Expect(ms.Range).To(Equal(20.0))
			Expect(ms.Best).To(Equal("fast"))
			Expect(ms.Worst).To(Equal("slow"))
		})

		It("ranks energy consumption lower-is-better", func() {
			res, err := c.Compare([]string{"slow", "mid", "fast"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())

			ms := res.Stats[metrics.MetricTotalEnergyConsumption]
			Expect(ms.Best).To(Equal("slow"))
			Expect(ms.Worst).To(Equal("fast"))
		})

		It("drops unknown and repeated ids", func() {
			res, err := c.Compare([]string{"fast", "ghost", "slow", "fast"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ScenarioIDs).To(Equal([]string{"fast", "slow"}))
		})

		It("needs two stored scenarios", func() {
			_, err := c.Compare([]string{"fast", "ghost"}, compare.Options{})
			Expect(errors.Is(err, compare.ErrInsufficientScenarios)).To(BeTrue())

			_, err = c.Compare([]string{"fast", "fast"}, compare.Options{})
			Expect(errors.Is(err, compare.ErrInsufficientScenarios)).To(BeTrue())
			Expect(c.AllComparisonResults()).To(BeEmpty())
		})

		It("correlates every metric pair once", func() {
			res, err := c.Compare([]string{"slow", "mid", "fast"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Correlations).To(HaveLen(15))

			speedDistance := res.Correlations["maxSpeed_totalDistance"]
			Expect(speedDistance.Coefficient).To(BeNumerically("~", 1, 1e-12))
			Expect(speedDistance.Strength).To(Equal(compare.StrengthStrong))

			constant := res.Correlations["maxSpeed_maxAcceleration"]
			Expect(constant.Coefficient).To(BeZero())
			Expect(constant.Strength).To(Equal(compare.StrengthNone))
		})

		It("fits trends over the scenario order", func() {
			res, err := c.Compare([]string{"slow", "mid", "fast"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trends[metrics.MetricMaxSpeed]).To(Equal(compare.Trend{Slope: 10, Direction: compare.DirectionPositive}))
			Expect(res.Trends[metrics.MetricMaxAcceleration].Direction).To(Equal(compare.DirectionFlat))

			res, err = c.Compare([]string{"fast", "mid", "slow"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trends[metrics.MetricMaxSpeed].Direction).To(Equal(compare.DirectionNegative))
		})

		It("grades significance by coefficient of variation", func() {
			res, err := c.Compare([]string{"slow", "mid", "fast"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())

			sig := res.Significance[metrics.MetricMaxSpeed]
			Expect(sig.CoefficientOfVariation).To(BeNumerically("~", math.Sqrt(200.0/3.0)/20, 1e-12))
			Expect(sig.IsSignificant).To(BeTrue())
			Expect(sig.Level).To(Equal(compare.LevelHigh))

			flat := res.Significance[metrics.MetricMaxAcceleration]
			Expect(flat.IsSignificant).To(BeFalse())
			Expect(flat.Level).To(Equal(compare.LevelLow))
		})

		It("orders recommendations by priority", func() {
			res, err := c.Compare([]string{"slow", "mid", "fast"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())

			recs := res.Recommendations
			Expect(recs).To(HaveLen(10))
			for i := 1; i < len(recs); i++ {
				Expect(recs[i].Priority).To(BeNumerically("<=", recs[i-1].Priority))
			}

			Expect(recs[0].Kind).To(Equal(compare.KindPerformance))
			Expect(recs[0].Priority).To(Equal(compare.PriorityHigh))
			Expect(recs[0].Metric).To(Equal(metrics.MetricMaxSpeed))
			Expect(recs[0].Message).To(ContainSubstring("fast"))
			Expect(recs[0].Message).To(ContainSubstring("200.0%"))
			Expect(recs[3].Metric).To(Equal(metrics.MetricTotalEnergyConsumption))

			Expect(recs[4].Kind).To(Equal(compare.KindCorrelation))
			Expect(recs[4].Priority).To(Equal(compare.PriorityMedium))
			Expect(recs[4].Metric).To(Equal("maxSpeed_averageSpeed"))
		})

		It("restricts the analysis to requested metrics", func() {
			res, err := c.Compare([]string{"slow", "fast"}, compare.Options{
				Name:    "speed only",
				Metrics: []string{metrics.MetricMaxSpeed, metrics.MetricAverageSpeed},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Name).To(Equal("speed only"))
			Expect(res.Stats).To(HaveLen(2))
			Expect(res.Correlations).To(HaveKey("maxSpeed_averageSpeed"))
			Expect(res.Correlations).To(HaveLen(1))

			_, err = c.Compare([]string{"slow", "fast"}, compare.Options{Metrics: []string{"topSpeed"}})
			Expect(errors.Is(err, compare.ErrUnknownMetric)).To(BeTrue())
		})

		It("keeps comparisons until cleared", func() {
			first, err := c.Compare([]string{"slow", "mid"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())
			second, err := c.Compare([]string{"mid", "fast"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(first.ID).NotTo(Equal(second.ID))

			got, ok := c.ComparisonResult(first.ID)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(first))
			Expect(got).NotTo(BeIdenticalTo(first))
			Expect(c.AllComparisonResults()).To(Equal([]*compare.ComparisonResult{first, second}))

			c.ClearComparisons()
			_, ok = c.ComparisonResult(first.ID)
			Expect(ok).To(BeFalse())
			Expect(c.AllComparisonResults()).To(BeEmpty())
			Expect(c.Len()).To(Equal(3))
		})

		It("hands out copies callers cannot corrupt", func() {
			res, err := c.Compare([]string{"slow", "mid", "fast"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())

			res.ScenarioIDs[0] = "tampered"
			res.Stats[metrics.MetricMaxSpeed].Values[0] = -1
			res.Correlations["maxSpeed_totalDistance"] = compare.Correlation{}
			res.Recommendations[0].Message = "tampered"
			delete(res.Trends, metrics.MetricMaxSpeed)

			got, ok := c.ComparisonResult(res.ID)
			Expect(ok).To(BeTrue())
			Expect(got.ScenarioIDs[0]).To(Equal("slow"))
			Expect(got.Stats[metrics.MetricMaxSpeed].Values).To(Equal([]float64{10, 20, 30}))
			Expect(got.Correlations["maxSpeed_totalDistance"].Strength).To(Equal(compare.StrengthStrong))
			Expect(got.Recommendations[0].Message).NotTo(Equal("tampered"))
			Expect(got.Trends).To(HaveKey(metrics.MetricMaxSpeed))

			all := c.AllComparisonResults()
			all[0].Metrics[0] = "tampered"
			again, _ := c.ComparisonResult(res.ID)
			Expect(again.Metrics[0]).To(Equal(metrics.MetricMaxSpeed))
		})

		It("finds no correlation between metrics constant at fractional values", func() {
			flat := compare.New(logging.Discard())
			for _, id := range []string{"a", "b", "c"} {
				p := scaled(1)
				p.MaxSpeed = 0.7
				p.MaxAcceleration = 123.456
				add(flat, id, p)
			}
			res, err := flat.Compare([]string{"a", "b", "c"}, compare.Options{
				Metrics: []string{metrics.MetricMaxSpeed, metrics.MetricMaxAcceleration},
			})
			Expect(err).NotTo(HaveOccurred())

			corr := res.Correlations["maxSpeed_maxAcceleration"]
			Expect(corr.Coefficient).To(BeZero())
			Expect(corr.Strength).To(Equal(compare.StrengthNone))
			for _, rec := range res.Recommendations {
				Expect(rec.Kind).NotTo(Equal(compare.KindCorrelation))
			}
		})
	})

	Describe("outliers", func() {
		It("flags a far value and adds a low priority note", func() {
			for i, d := range []float64{1, 2, 3, 4, 100} {
				p := scaled(10)
				p.TotalDistance = d
				add(c, string(rune('a'+i)), p)
			}

			res, err := c.Compare([]string{"a", "b", "c", "d", "e"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outliers[metrics.MetricTotalDistance]).To(Equal([]compare.Outlier{{ScenarioID: "e", Value: 100}}))
			Expect(res.Outliers[metrics.MetricMaxSpeed]).To(BeEmpty())

			last := res.Recommendations[len(res.Recommendations)-1]
			Expect(last.Kind).To(Equal(compare.KindOutlier))
			Expect(last.Priority).To(Equal(compare.PriorityLow))
			Expect(last.Metric).To(Equal(metrics.MetricTotalDistance))
		})

		It("flags nothing in an even spread", func() {
			for i, d := range []float64{1, 2, 3, 4, 5} {
				p := scaled(10)
				p.TotalDistance = d
				add(c, string(rune('a'+i)), p)
			}

			res, err := c.Compare([]string{"a", "b", "c", "d", "e"}, compare.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outliers[metrics.MetricTotalDistance]).To(BeEmpty())
		})
	})

	Describe("charts", func() {
		It("plots and caches per scenario", func() {
			add(c, "a", scaled(10))

			chart, err := c.Chart("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(chart).To(ContainSubstring("speed (m/s) - A"))

			again, err := c.Chart("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(chart))
		})

		It("purges the cache on overwrite and removal", func() {
			add(c, "a", scaled(10))
			before, err := c.Chart("a")
			Expect(err).NotTo(HaveOccurred())

			add(c, "a", scaled(50))
			after, err := c.Chart("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(after).NotTo(Equal(before))

			Expect(c.RemoveScenarioResult("a")).To(BeTrue())
			_, err = c.Chart("a")
			Expect(errors.Is(err, compare.ErrNotFound)).To(BeTrue())
		})
	})
})

var _ = DescribeTable("correlation strength labels",
	func(values []float64, want string) {
		c := compare.New(logging.Discard())
		for i, v := range values {
			p := scaled(float64(i + 1))
			p.MaxAcceleration = v
			add(c, string(rune('a'+i)), p)
		}
		res, err := c.Compare([]string{"a", "b", "c", "d"}, compare.Options{
			Metrics: []string{metrics.MetricMaxSpeed, metrics.MetricMaxAcceleration},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Correlations["maxSpeed_maxAcceleration"].Strength).To(Equal(want))
	},
	Entry("perfect", []float64{1, 2, 3, 4}, compare.StrengthStrong),
	Entry("inverse", []float64{4, 3, 2, 1}, compare.StrengthStrong),
	Entry("loose", []float64{2, 1, 4, 3}, compare.StrengthModerate),
	Entry("none", []float64{1, 2, 2, 1}, compare.StrengthNone),
)
