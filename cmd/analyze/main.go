package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"gazestats/adapters/cluster"
	"gazestats/adapters/preprocess"
	"gazestats/adapters/rng"
	"gazestats/internal"
	"gazestats/internal/config"
	apperrors "gazestats/internal/errors"
	"gazestats/internal/testkit"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration [%s]: %v", apperrors.GetCode(err), err)
	}
	logger := internal.NewDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pipeline, err := preprocess.NewPipeline(cfg.Pipeline)
	if err != nil {
		log.Fatalf("Failed to build pipeline [%s]: %v", apperrors.Classify(err).Code, err)
	}

	// Stand-in loader: a deterministic synthetic session. A real deployment
	// plugs its recording loader into the same port.
	loader := testkit.NewGenerator(testkit.DefaultGeneratorConfig(cfg.Tester.Seed))

	result, err := pipeline.RunFrom(ctx, loader)
	if err != nil {
		log.Fatalf("Preprocessing failed [%s]: %v", apperrors.Classify(err).Code, err)
	}
	logger.Info("batch %s: %d trials, %d rejected",
		result.BatchID, len(result.Report.Trials), result.Report.RejectedCount())
	for cond, m := range result.Matrices {
		logger.Info("condition %s: %d trials x %d timepoints", cond, m.Trials(), m.Timepoints())
	}

	tester, err := cluster.NewTester(cfg.Tester, rng.NewDeterministic())
	if err != nil {
		log.Fatalf("Failed to build tester [%s]: %v", apperrors.Classify(err).Code, err)
	}

	groupA, okA := result.Matrices["control"]
	groupB, okB := result.Matrices["target"]
	if !okA || !okB {
		log.Fatal("Expected conditions control and target in the batch")
	}

	test, err := tester.Run(ctx, groupA, groupB)
	if err != nil {
		log.Fatalf("Permutation test failed [%s]: %v", apperrors.Classify(err).Code, err)
	}

	logger.Info("permutations: %d, null mean %.3f, null p95 %.3f",
		test.Permutations, test.Null.Mean, test.Null.Percentile95)
	for _, c := range test.Clusters {
		marker := ""
		if c.Significant {
			marker = " *"
		}
		logger.Info("cluster [%d,%d) strength %.2f p=%.4f%s", c.Start, c.End, c.Strength, c.PValue, marker)
	}
	if len(test.Clusters) == 0 {
		logger.Info("no clusters exceeded the point-wise threshold")
	}
}
