package config

import (
	"os"
	"strconv"

	"gazestats/adapters/cluster"
	"gazestats/adapters/preprocess"
	"gazestats/internal/errors"
)

// Config represents the complete analysis configuration, resolved once per
// run from the environment. There are no process-wide mutable defaults; each
// component receives its own struct.
type Config struct {
	Pipeline preprocess.PipelineConfig
	Tester   cluster.TesterConfig
}

// Load builds the configuration from environment variables, applying the
// documented defaults for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Pipeline: preprocess.PipelineConfig{
			Detector: preprocess.DetectorConfig{
				MaxJump:            getEnvFloat("DETECT_MAX_JUMP", 3.0),
				ConsecutiveSamples: getEnvInt("DETECT_CONSECUTIVE", 1),
				Padding:            getEnvInt("DETECT_PADDING", 10),
				CheckRange:         os.Getenv("DETECT_MIN_VALUE") != "" || os.Getenv("DETECT_MAX_VALUE") != "",
				MinValue:           getEnvFloat("DETECT_MIN_VALUE", 0),
				MaxValue:           getEnvFloat("DETECT_MAX_VALUE", 0),
			},
			Interpolator: preprocess.InterpolatorConfig{
				MaxGap: getEnvInt("INTERP_MAX_GAP", 500),
				Order:  preprocess.InterpolationOrder(getEnv("INTERP_ORDER", "cubic")),
			},
			Filter: preprocess.FilterConfig{
				Window:     getEnvInt("FILTER_WINDOW", 11),
				TargetRate: getEnvFloat("FILTER_TARGET_RATE", 0),
			},
			Baseline: preprocess.BaselineConfig{
				Start: getEnvInt("BASELINE_START", -10),
				End:   getEnvInt("BASELINE_END", 0),
				Mode:  preprocess.CorrectionMode(getEnv("BASELINE_MODE", "subtractive")),
			},
			MaxInterpolatedFraction: getEnvFloat("MAX_INTERPOLATED_FRACTION", 0.5),
			OutlierSD:               getEnvFloat("OUTLIER_SD", 0),
			MaxParallel:             getEnvInt("MAX_PARALLEL", 0),
		},
		Tester: cluster.TesterConfig{
			Test:           cluster.TestKind(getEnv("TEST_KIND", "independent")),
			Tail:           cluster.Tail(getEnv("TEST_TAIL", "two-sided")),
			PointAlpha:     getEnvFloat("POINT_ALPHA", 0.05),
			ClusterAlpha:   getEnvFloat("CLUSTER_ALPHA", 0.05),
			Permutations:   getEnvInt("PERMUTATIONS", 1000),
			Seed:           int64(getEnvInt("SEED", 42)),
			Statistic:      cluster.ClusterStatistic(getEnv("CLUSTER_STATISTIC", "sum")),
			MergeMargin:    getEnvInt("CLUSTER_MERGE_MARGIN", 0),
			MinClusterSize: getEnvInt("CLUSTER_MIN_SIZE", 0),
			Workers:        getEnvInt("WORKERS", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast before any processing begins.
func (c *Config) Validate() error {
	if err := c.Pipeline.Validate(); err != nil {
		return errors.Wrap(errors.Classify(err), "pipeline configuration")
	}
	if err := c.Tester.Validate(); err != nil {
		return errors.Wrap(errors.Classify(err), "tester configuration")
	}
	return nil
}

// Environment variable helpers

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
