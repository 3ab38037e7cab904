package cluster

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TestKind selects the per-timepoint statistic.
type TestKind string

const (
	// TestPaired compares condition pairs within subjects.
	TestPaired TestKind = "paired"

	// TestIndependent is the two-sample t-test with pooled variance.
	TestIndependent TestKind = "independent"

	// TestWelch is the two-sample t-test without assuming equal variances.
	TestWelch TestKind = "welch"
)

// Tail selects which side of the distribution yields the p-value.
type Tail string

const (
	TailTwoSided Tail = "two-sided"
	TailGreater  Tail = "greater"
	TailLess     Tail = "less"
)

// tTestEngine computes per-timepoint t statistics between two trial-by-time
// groups. It is reused verbatim by the permutation loop so permuted datasets
// go through exactly the same computation as the observed one.
type tTestEngine struct {
	kind TestKind
	tail Tail
}

// statSeries fills tvals and pvals for every timepoint. Rows of a and b are
// trials; columns are timepoints. Buffers must be sized to the time axis.
func (e tTestEngine) statSeries(a, b [][]float64, tvals, pvals []float64) {
	colA := make([]float64, len(a))
	colB := make([]float64, len(b))
	for j := range tvals {
		for i, row := range a {
			colA[i] = row[j]
		}
		for i, row := range b {
			colB[i] = row[j]
		}
		tvals[j], pvals[j] = e.stat(colA, colB)
	}
}

// stat computes a single t statistic and its p-value.
func (e tTestEngine) stat(x, y []float64) (float64, float64) {
	var t, df float64
	switch e.kind {
	case TestPaired:
		t, df = pairedT(x, y)
	case TestWelch:
		t, df = welchT(x, y)
	default:
		t, df = pooledT(x, y)
	}
	if df <= 0 || math.IsNaN(t) {
		return 0, 1
	}
	return t, e.pValue(t, df)
}

func (e tTestEngine) pValue(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	switch e.tail {
	case TailGreater:
		return 1 - dist.CDF(t)
	case TailLess:
		return dist.CDF(t)
	default:
		return 2 * (1 - dist.CDF(math.Abs(t)))
	}
}

// pairedT computes the paired-samples t statistic on per-subject differences.
func pairedT(x, y []float64) (float64, float64) {
	n := len(x)
	if n < 2 {
		return math.NaN(), 0
	}
	diffs := make([]float64, n)
	for i := range x {
		diffs[i] = x[i] - y[i]
	}
	mean := stat.Mean(diffs, nil)
	sd := math.Sqrt(stat.Variance(diffs, nil))
	if sd == 0 {
		return math.NaN(), 0
	}
	return mean / (sd / math.Sqrt(float64(n))), float64(n - 1)
}

// pooledT computes the independent-samples t statistic with pooled variance.
func pooledT(x, y []float64) (float64, float64) {
	n1 := float64(len(x))
	n2 := float64(len(y))
	if n1 < 2 || n2 < 2 {
		return math.NaN(), 0
	}
	m1 := stat.Mean(x, nil)
	m2 := stat.Mean(y, nil)
	v1 := stat.Variance(x, nil)
	v2 := stat.Variance(y, nil)

	pooled := ((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2)
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		return math.NaN(), 0
	}
	return (m1 - m2) / se, n1 + n2 - 2
}

// welchT computes the unequal-variance t statistic with Welch-Satterthwaite
// degrees of freedom.
func welchT(x, y []float64) (float64, float64) {
	n1 := float64(len(x))
	n2 := float64(len(y))
	if n1 < 2 || n2 < 2 {
		return math.NaN(), 0
	}
	m1 := stat.Mean(x, nil)
	m2 := stat.Mean(y, nil)
	v1 := stat.Variance(x, nil)
	v2 := stat.Variance(y, nil)

	se := math.Sqrt(v1/n1 + v2/n2)
	if se == 0 {
		return math.NaN(), 0
	}
	t := (m1 - m2) / se
	df := math.Pow(v1/n1+v2/n2, 2) /
		(math.Pow(v1/n1, 2)/(n1-1) + math.Pow(v2/n2, 2)/(n2-1))
	return t, df
}
