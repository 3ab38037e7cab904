package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func maskFrom(indices []int, n int) []bool {
	mask := make([]bool, n)
	for _, i := range indices {
		mask[i] = true
	}
	return mask
}

func TestBuildClusters_ContiguousRuns(t *testing.T) {
	tvals := []float64{1, 3, 3, 1, -4, -4, 1, 1, 2, 2}
	mask := maskFrom([]int{1, 2, 4, 5, 8, 9}, 10)

	clusters := buildClusters(tvals, mask, 0, 0, StatisticSum)
	assert.Len(t, clusters, 3)

	assert.Equal(t, 1, clusters[0].Start)
	assert.Equal(t, 3, clusters[0].End)
	assert.InDelta(t, 6.0, clusters[0].Strength, 1e-12)

	// Magnitudes, not signed values, feed the strength.
	assert.InDelta(t, 8.0, clusters[1].Strength, 1e-12)
	assert.InDelta(t, -4.0, clusters[1].MinT, 1e-12)
	assert.InDelta(t, -4.0, clusters[1].MeanT, 1e-12)
}

func TestBuildClusters_MaxStatistic(t *testing.T) {
	tvals := []float64{0, 2, 5, 3, 0}
	mask := maskFrom([]int{1, 2, 3}, 5)

	clusters := buildClusters(tvals, mask, 0, 0, StatisticMax)
	assert.Len(t, clusters, 1)
	assert.InDelta(t, 5.0, clusters[0].Strength, 1e-12)
}

func TestBuildClusters_MergeMargin(t *testing.T) {
	tvals := make([]float64, 12)
	for i := range tvals {
		tvals[i] = 2
	}
	mask := maskFrom([]int{2, 3, 6, 7}, 12)

	separate := buildClusters(tvals, mask, 0, 0, StatisticSum)
	assert.Len(t, separate, 2)

	merged := buildClusters(tvals, mask, 2, 0, StatisticSum)
	assert.Len(t, merged, 1)
	assert.Equal(t, 2, merged[0].Start)
	assert.Equal(t, 8, merged[0].End)
}

func TestBuildClusters_MinSize(t *testing.T) {
	tvals := make([]float64, 10)
	for i := range tvals {
		tvals[i] = 2
	}
	mask := maskFrom([]int{0, 4, 5, 6}, 10)

	clusters := buildClusters(tvals, mask, 0, 2, StatisticSum)
	assert.Len(t, clusters, 1, "single-point cluster dropped")
	assert.Equal(t, 4, clusters[0].Start)
}

func TestBuildClusters_TailRun(t *testing.T) {
	tvals := []float64{0, 0, 3, 3}
	mask := maskFrom([]int{2, 3}, 4)

	clusters := buildClusters(tvals, mask, 0, 0, StatisticSum)
	assert.Len(t, clusters, 1)
	assert.Equal(t, 4, clusters[0].End, "run reaching the last timepoint closes at the boundary")
}

func TestMaxStrength_EmptyIsZero(t *testing.T) {
	assert.Zero(t, maxStrength(nil))
}
