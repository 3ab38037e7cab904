package cluster

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"gazestats/domain/core"
	"gazestats/domain/signal"
	"gazestats/ports"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// TesterConfig holds the permutation test settings for one run.
type TesterConfig struct {
	Test TestKind
	Tail Tail

	// PointAlpha is the per-timepoint significance threshold forming the
	// cluster mask.
	PointAlpha float64

	// ClusterAlpha is the cluster-level significance threshold applied to
	// the empirical p-values.
	ClusterAlpha float64

	// Permutations is the number of random relabelings building the null
	// distribution.
	Permutations int

	// Seed fixes the pseudo-random streams. Runs with equal seeds produce
	// identical p-values regardless of worker scheduling.
	Seed int64

	Statistic      ClusterStatistic
	MergeMargin    int
	MinClusterSize int

	// Workers bounds concurrent permutation iterations. 0 means GOMAXPROCS.
	Workers int
}

// DefaultTesterConfig mirrors the usual analysis settings: independent
// two-sided t-tests, alpha 0.05 at both levels, 1000 permutations, summed
// cluster mass.
func DefaultTesterConfig(seed int64) TesterConfig {
	return TesterConfig{
		Test:         TestIndependent,
		Tail:         TailTwoSided,
		PointAlpha:   0.05,
		ClusterAlpha: 0.05,
		Permutations: 1000,
		Seed:         seed,
		Statistic:    StatisticSum,
	}
}

// Validate checks the configuration before any stage runs.
func (c TesterConfig) Validate() error {
	switch c.Test {
	case TestPaired, TestIndependent, TestWelch:
	default:
		return core.NewConfigError("Test", "must be paired, independent, or welch")
	}
	switch c.Tail {
	case TailTwoSided, TailGreater, TailLess:
	default:
		return core.NewConfigError("Tail", "must be two-sided, greater, or less")
	}
	if c.PointAlpha <= 0 || c.PointAlpha >= 1 {
		return core.NewConfigError("PointAlpha", "must be in (0,1)")
	}
	if c.ClusterAlpha <= 0 || c.ClusterAlpha >= 1 {
		return core.NewConfigError("ClusterAlpha", "must be in (0,1)")
	}
	if c.Permutations < 1 {
		return core.NewConfigError("Permutations", "must be at least 1")
	}
	switch c.Statistic {
	case "", StatisticSum, StatisticMax:
	default:
		return core.NewConfigError("Statistic", "must be sum or max")
	}
	if c.MergeMargin < 0 {
		return core.NewConfigError("MergeMargin", "cannot be negative")
	}
	if c.MinClusterSize < 0 {
		return core.NewConfigError("MinClusterSize", "cannot be negative")
	}
	if c.Workers < 0 {
		return core.NewConfigError("Workers", "cannot be negative")
	}
	return nil
}

// NullSummary describes the permutation null distribution for inspection.
type NullSummary struct {
	Mean         float64
	StdDev       float64
	Max          float64
	Percentile95 float64
	Percentile99 float64
}

// TestResult is the tester output: the full per-timepoint statistic vector
// plus the observed clusters with their empirical p-values.
type TestResult struct {
	TValues []float64
	PValues []float64
	Mask    []bool

	Clusters    []Cluster // all observed clusters, ascending start order
	Significant []Cluster // clusters with p < ClusterAlpha

	Null         NullSummary
	Permutations int
}

// Tester runs the cluster-based permutation test over two cleaned trial
// matrices. Stages run in fixed order: validate, compute the observed
// statistic, build clusters, run the permutation loop, summarize.
type Tester struct {
	cfg    TesterConfig
	rng    ports.RNGPort
	engine tTestEngine
}

// NewTester creates a tester, validating its configuration up front.
func NewTester(cfg TesterConfig, rngPort ports.RNGPort) (*Tester, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Statistic == "" {
		cfg.Statistic = StatisticSum
	}
	return &Tester{
		cfg:    cfg,
		rng:    rngPort,
		engine: tTestEngine{kind: cfg.Test, tail: cfg.Tail},
	}, nil
}

// Run executes the full test between two condition groups.
func (t *Tester) Run(ctx context.Context, groupA, groupB *signal.TrialMatrix) (*TestResult, error) {
	if err := t.validate(groupA, groupB); err != nil {
		return nil, err
	}

	n := groupA.Timepoints()
	tvals := make([]float64, n)
	pvals := make([]float64, n)
	t.engine.statSeries(groupA.Data, groupB.Data, tvals, pvals)

	mask := make([]bool, n)
	for j, p := range pvals {
		mask[j] = p <= t.cfg.PointAlpha
	}
	observed := buildClusters(tvals, mask, t.cfg.MergeMargin, t.cfg.MinClusterSize, t.cfg.Statistic)

	null, err := t.permutationLoop(ctx, groupA.Data, groupB.Data, n)
	if err != nil {
		return nil, err
	}

	return t.summarize(tvals, pvals, mask, observed, null), nil
}

// validate fails atomically before any permutation runs.
func (t *Tester) validate(groupA, groupB *signal.TrialMatrix) error {
	if groupA == nil || groupB == nil {
		return fmt.Errorf("%w: both groups are required", core.ErrInsufficientData)
	}
	if groupA.Timepoints() != groupB.Timepoints() {
		return core.NewShapeError(groupA.Condition, groupB.Condition, groupA.Timepoints(), groupB.Timepoints())
	}
	if groupA.Trials() < 2 {
		return core.NewGroupError(groupA.Condition, core.ErrInsufficientData)
	}
	if groupB.Trials() < 2 {
		return core.NewGroupError(groupB.Condition, core.ErrInsufficientData)
	}
	if t.cfg.Test == TestPaired && groupA.Trials() != groupB.Trials() {
		return fmt.Errorf("%w: paired test needs equal group sizes, got %d and %d",
			core.ErrInsufficientData, groupA.Trials(), groupB.Trials())
	}
	return nil
}

// permutationLoop builds the null distribution of maximum cluster strengths.
// Iterations are independent: each draws from its own seed-derived stream and
// writes to its own slot, so concurrent execution cannot affect the result.
// The context is checked between iterations for cooperative abort.
func (t *Tester) permutationLoop(ctx context.Context, a, b [][]float64, timepoints int) ([]float64, error) {
	null := make([]float64, t.cfg.Permutations)

	g, gctx := errgroup.WithContext(ctx)
	workers := t.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i := 0; i < t.cfg.Permutations; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stream, err := t.rng.IterationStream(gctx, "cluster-permutation", t.cfg.Seed, i)
			if err != nil {
				return err
			}
			null[i] = t.permutationStrength(a, b, timepoints, stream)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return null, nil
}

// permutationStrength relabels trials, recomputes the statistic series and
// clusters exactly as for the observed data, and returns the maximum cluster
// strength of this relabeling.
func (t *Tester) permutationStrength(a, b [][]float64, timepoints int, stream *rand.Rand) float64 {
	pseudoA, pseudoB := t.relabel(a, b, stream)

	tvals := make([]float64, timepoints)
	pvals := make([]float64, timepoints)
	t.engine.statSeries(pseudoA, pseudoB, tvals, pvals)

	mask := make([]bool, timepoints)
	for j, p := range pvals {
		mask[j] = p <= t.cfg.PointAlpha
	}
	return maxStrength(buildClusters(tvals, mask, t.cfg.MergeMargin, t.cfg.MinClusterSize, t.cfg.Statistic))
}

// relabel reassigns trial-to-group labels preserving group sizes. Rows are
// shared read-only between iterations; only the row assignment is permuted.
// Paired designs swap each subject's condition pair with probability one
// half; independent designs reassign from the pooled trials.
func (t *Tester) relabel(a, b [][]float64, stream *rand.Rand) ([][]float64, [][]float64) {
	if t.cfg.Test == TestPaired {
		pseudoA := make([][]float64, len(a))
		pseudoB := make([][]float64, len(b))
		for i := range a {
			if stream.Float64() > 0.5 {
				pseudoA[i], pseudoB[i] = b[i], a[i]
			} else {
				pseudoA[i], pseudoB[i] = a[i], b[i]
			}
		}
		return pseudoA, pseudoB
	}

	pooled := make([][]float64, 0, len(a)+len(b))
	pooled = append(pooled, a...)
	pooled = append(pooled, b...)
	perm := stream.Perm(len(pooled))

	pseudoA := make([][]float64, len(a))
	pseudoB := make([][]float64, len(b))
	for i := range pseudoA {
		pseudoA[i] = pooled[perm[i]]
	}
	for i := range pseudoB {
		pseudoB[i] = pooled[perm[len(a)+i]]
	}
	return pseudoA, pseudoB
}

// summarize attaches empirical p-values to the observed clusters and
// condenses the null distribution.
func (t *Tester) summarize(tvals, pvals []float64, mask []bool, observed []Cluster, null []float64) *TestResult {
	res := &TestResult{
		TValues:      tvals,
		PValues:      pvals,
		Mask:         mask,
		Permutations: t.cfg.Permutations,
	}

	for _, c := range observed {
		count := 0
		for _, strength := range null {
			if strength >= c.Strength {
				count++
			}
		}
		c.PValue = float64(count+1) / float64(t.cfg.Permutations+1)
		c.Significant = c.PValue < t.cfg.ClusterAlpha
		res.Clusters = append(res.Clusters, c)
		if c.Significant {
			res.Significant = append(res.Significant, c)
		}
	}

	data := stats.Float64Data(null)
	mean, _ := stats.Mean(data)
	sd, _ := stats.StandardDeviationSample(data)
	max, _ := stats.Max(data)
	p95, _ := stats.Percentile(data, 95)
	p99, _ := stats.Percentile(data, 99)
	res.Null = NullSummary{Mean: mean, StdDev: sd, Max: max, Percentile95: p95, Percentile99: p99}

	return res
}
