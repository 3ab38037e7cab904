package cluster

import "math"

// ClusterStatistic selects how a cluster's strength aggregates the statistic
// over its span.
type ClusterStatistic string

const (
	// StatisticSum sums the statistic magnitude over the cluster.
	StatisticSum ClusterStatistic = "sum"

	// StatisticMax takes the largest statistic magnitude in the cluster.
	StatisticMax ClusterStatistic = "max"
)

// Cluster is a contiguous run of significant timepoints [Start, End). It is
// created fresh per permutation iteration; only the true-labeling clusters
// survive into the final result, annotated with their empirical p-value.
type Cluster struct {
	Start    int
	End      int
	Strength float64

	// Descriptives over the raw statistic inside the span.
	MeanT float64
	MinT  float64
	MaxT  float64

	PValue      float64
	Significant bool
}

// Len returns the cluster width in timepoints.
func (c Cluster) Len() int { return c.End - c.Start }

// Overlaps reports whether the cluster intersects [start, end).
func (c Cluster) Overlaps(start, end int) bool {
	return c.Start < end && start < c.End
}

// buildClusters groups contiguous masked timepoints into clusters. Clusters
// separated by at most mergeMargin timepoints are merged, then clusters
// narrower than minSize are dropped. Adjacency never produces ties: touching
// runs merge by construction.
func buildClusters(tvals []float64, mask []bool, mergeMargin, minSize int, statistic ClusterStatistic) []Cluster {
	var runs [][2]int
	start := -1
	for i, m := range mask {
		if m && start < 0 {
			start = i
		}
		if !m && start >= 0 {
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(mask)})
	}

	if mergeMargin > 0 && len(runs) > 1 {
		merged := runs[:1]
		for _, r := range runs[1:] {
			last := &merged[len(merged)-1]
			if r[0]-last[1] <= mergeMargin {
				last[1] = r[1]
			} else {
				merged = append(merged, r)
			}
		}
		runs = merged
	}

	var clusters []Cluster
	for _, r := range runs {
		if r[1]-r[0] < minSize {
			continue
		}
		clusters = append(clusters, newCluster(tvals, r[0], r[1], statistic))
	}
	return clusters
}

func newCluster(tvals []float64, start, end int, statistic ClusterStatistic) Cluster {
	c := Cluster{
		Start: start,
		End:   end,
		MinT:  tvals[start],
		MaxT:  tvals[start],
	}
	sum := 0.0
	sumAbs := 0.0
	maxAbs := 0.0
	for _, t := range tvals[start:end] {
		sum += t
		abs := math.Abs(t)
		sumAbs += abs
		if abs > maxAbs {
			maxAbs = abs
		}
		if t < c.MinT {
			c.MinT = t
		}
		if t > c.MaxT {
			c.MaxT = t
		}
	}
	c.MeanT = sum / float64(end-start)
	if statistic == StatisticMax {
		c.Strength = maxAbs
	} else {
		c.Strength = sumAbs
	}
	return c
}

// maxStrength returns the largest cluster strength, or 0 when no cluster
// formed. This is the per-iteration contribution to the null distribution.
func maxStrength(clusters []Cluster) float64 {
	m := 0.0
	for _, c := range clusters {
		if c.Strength > m {
			m = c.Strength
		}
	}
	return m
}
