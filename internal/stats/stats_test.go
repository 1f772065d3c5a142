package stats_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vehiclelab/internal/stats"
)

var _ = Describe("descriptive statistics", func() {
	It("summarises [10,20,30]", func() {
		xs := []float64{10, 20, 30}
		Expect(stats.Mean(xs)).To(BeNumerically("~", 20, 1e-12))
		Expect(stats.PopulationStdDev(xs)).To(BeNumerically("~", math.Sqrt(200.0/3.0), 1e-12))
		Expect(stats.PopulationStdDev(xs)).To(BeNumerically("~", 8.165, 1e-3))

		lo, hi := stats.MinMaxIndex(xs)
		Expect(lo).To(Equal(0))
		Expect(hi).To(Equal(2))
	})

	It("treats empty input as zero", func() {
		Expect(stats.Mean(nil)).To(BeZero())
		Expect(stats.PopulationStdDev(nil)).To(BeZero())
		Expect(stats.CoefficientOfVariation(nil)).To(BeZero())
		lo, hi := stats.MinMaxIndex(nil)
		Expect(lo).To(Equal(-1))
		Expect(hi).To(Equal(-1))
	})

	It("keeps the first index on ties", func() {
		lo, hi := stats.MinMaxIndex([]float64{3, 1, 3, 1})
		Expect(lo).To(Equal(1))
		Expect(hi).To(Equal(0))
	})

	It("returns zero CV for a zero mean", func() {
		Expect(stats.CoefficientOfVariation([]float64{-1, 1})).To(BeZero())
		Expect(stats.CoefficientOfVariation([]float64{10, 20, 30})).To(BeNumerically("~", 0.40825, 1e-4))
	})
})

var _ = Describe("Pearson", func() {
	It("is 1 for identical vectors", func() {
		x := []float64{1, 4, 2, 8, 5}
		Expect(stats.Pearson(x, x)).To(BeNumerically("~", 1, 1e-12))
	})

	It("is -1 against the negation", func() {
		x := []float64{1, 4, 2, 8, 5}
		neg := make([]float64, len(x))
		for i, v := range x {
			neg[i] = -v
		}
		Expect(stats.Pearson(x, neg)).To(BeNumerically("~", -1, 1e-12))
	})

	DescribeTable("stays within [-1,1]",
		func(x, y []float64) {
			r := stats.Pearson(x, y)
			Expect(r).To(BeNumerically(">=", -1))
			Expect(r).To(BeNumerically("<=", 1))
		},
		Entry("noisy", []float64{1, 2, 3, 4}, []float64{2, 1, 4, 3}),
		Entry("large offsets", []float64{1e9, 1e9 + 1, 1e9 + 2}, []float64{3, 1, 2}),
		Entry("tiny values", []float64{1e-9, 2e-9, 4e-9}, []float64{1e-9, 3e-9, 2e-9}),
	)

	DescribeTable("falls back to zero",
		func(x, y []float64) {
			Expect(stats.Pearson(x, y)).To(BeZero())
		},
		Entry("empty", []float64{}, []float64{}),
		Entry("constant x", []float64{2, 2, 2}, []float64{1, 2, 3}),
		Entry("constant y", []float64{1, 2, 3}, []float64{5, 5, 5}),
		Entry("length mismatch", []float64{1, 2, 3}, []float64{1, 2}),
		Entry("constant fractions", []float64{0.7, 0.7, 0.7}, []float64{123.456, 123.456, 123.456}),
		Entry("constant fraction against a ramp", []float64{0.1, 0.1, 0.1, 0.1, 0.1}, []float64{1, 2, 3, 4, 5}),
	)
})

var _ = Describe("OLSSlope", func() {
	DescribeTable("fits against the index",
		func(y []float64, want float64) {
			Expect(stats.OLSSlope(y)).To(BeNumerically("~", want, 1e-12))
		},
		Entry("rising", []float64{10, 20, 30}, 10.0),
		Entry("falling", []float64{5, 3, 1}, -2.0),
		Entry("flat", []float64{4, 4, 4, 4}, 0.0),
		Entry("noisy", []float64{1, 3, 2, 4}, 0.8),
		Entry("single", []float64{7}, 0.0),
	)
})

var _ = Describe("outlier fences", func() {
	flagged := func(xs []float64) []float64 {
		lo, hi := stats.IQRBounds(xs, 1.5)
		var out []float64
		for _, x := range xs {
			if x < lo || x > hi {
				out = append(out, x)
			}
		}
		return out
	}

	It("flags 100 in [1,2,3,4,100]", func() {
		Expect(flagged([]float64{1, 2, 3, 4, 100})).To(Equal([]float64{100}))
	})

	It("flags nothing in [1,2,3,4,5]", func() {
		Expect(flagged([]float64{1, 2, 3, 4, 5})).To(BeEmpty())
	})

	It("interpolates quartiles between ranks", func() {
		q1, q3 := stats.Quartiles([]float64{4, 1, 3, 2})
		Expect(q1).To(BeNumerically("~", 1.75, 1e-12))
		Expect(q3).To(BeNumerically("~", 3.25, 1e-12))
		Expect(stats.Quantile([]float64{1, 2, 3, 4, 5}, 0.5)).To(BeNumerically("~", 3, 1e-12))
	})

	It("does not reorder its input", func() {
		xs := []float64{3, 1, 2}
		stats.Quartiles(xs)
		Expect(xs).To(Equal([]float64{3, 1, 2}))
	})
})
