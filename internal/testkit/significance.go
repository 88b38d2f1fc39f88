package testkit

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Significance level used to flag a hypothesis result
const Alpha = 0.05

// TestResult is a statistic and its two-sided p-value
type TestResult struct {
	Statistic float64
	PValue    float64
}

// Significant reports whether the result clears Alpha
func (r TestResult) Significant() bool {
	return r.PValue < Alpha
}

// WelchT is the two-sample t-test without the equal-variance assumption
func WelchT(a, b []float64) (TestResult, bool) {
	if len(a) < 2 || len(b) < 2 {
		return TestResult{}, false
	}
	ma, _ := stats.Mean(a)
	mb, _ := stats.Mean(b)
	va, _ := stats.SampleVariance(a)
	vb, _ := stats.SampleVariance(b)

	na, nb := float64(len(a)), float64(len(b))
	se := va/na + vb/nb
	if se == 0 {
		return TestResult{}, false
	}
	t := (ma - mb) / math.Sqrt(se)
	df := se * se / ((va/na)*(va/na)/(na-1) + (vb/nb)*(vb/nb)/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return TestResult{Statistic: t, PValue: 2 * dist.Survival(math.Abs(t))}, true
}

// OneWayANOVA tests whether the group means differ
func OneWayANOVA(groups [][]float64) (TestResult, bool) {
	var all []float64
	k := 0
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		all = append(all, g...)
		k++
	}
	n := len(all)
	if k < 2 || n <= k {
		return TestResult{}, false
	}
	grand, _ := stats.Mean(all)

	var between, within float64
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		m, _ := stats.Mean(g)
		between += float64(len(g)) * (m - grand) * (m - grand)
		for _, x := range g {
			within += (x - m) * (x - m)
		}
	}
	if within == 0 {
		return TestResult{}, false
	}

	d1, d2 := float64(k-1), float64(n-k)
	f := (between / d1) / (within / d2)
	dist := distuv.F{D1: d1, D2: d2}
	return TestResult{Statistic: f, PValue: dist.Survival(f)}, true
}

// PearsonTest is the correlation coefficient with the p-value of its t
// transform
func PearsonTest(x, y []float64) (TestResult, bool) {
	if len(x) != len(y) || len(x) < 3 {
		return TestResult{}, false
	}
	r, err := stats.Pearson(x, y)
	if err != nil || math.IsNaN(r) {
		return TestResult{}, false
	}
	if math.Abs(r) >= 1 {
		return TestResult{Statistic: r, PValue: 0}, true
	}
	df := float64(len(x) - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return TestResult{Statistic: r, PValue: 2 * dist.Survival(math.Abs(t))}, true
}

// round keeps display precision stable across runs
func round(v float64, places int) float64 {
	r, err := stats.Round(v, places)
	if err != nil {
		return v
	}
	return r
}
