package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// IterationStream creates an independent deterministic stream for one
	// iteration of a named loop. Streams for distinct iterations share no
	// state, so concurrent permutation workers reproduce the same draws
	// regardless of completion order.
	IterationStream(ctx context.Context, name string, seed int64, iteration int) (*rand.Rand, error)
}
