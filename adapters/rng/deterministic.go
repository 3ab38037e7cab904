package rng

import (
	"context"
	"math/rand"

	"gazestats/domain/core"
)

// Deterministic derives independent rand streams from a base seed so that
// every named operation and loop iteration reproduces identically across
// runs and across worker scheduling orders.
type Deterministic struct{}

// NewDeterministic creates the stream adapter.
func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

// SeededStream creates a deterministic generator for a named operation.
func (d *Deterministic) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(core.DeriveSeed(seed, name, 0))), nil
}

// IterationStream creates an independent generator for one loop iteration.
func (d *Deterministic) IterationStream(ctx context.Context, name string, seed int64, iteration int) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(core.DeriveSeed(seed, name, iteration+1))), nil
}
