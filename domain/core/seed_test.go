package core

import "testing"

func TestDeriveSeed_Deterministic(t *testing.T) {
	a := DeriveSeed(42, "permutation", 3)
	b := DeriveSeed(42, "permutation", 3)
	if a != b {
		t.Fatalf("same inputs produced different seeds: %d vs %d", a, b)
	}
}

func TestDeriveSeed_SeparatesInputs(t *testing.T) {
	base := DeriveSeed(42, "permutation", 0)
	if DeriveSeed(43, "permutation", 0) == base {
		t.Error("base seed change did not alter derived seed")
	}
	if DeriveSeed(42, "other", 0) == base {
		t.Error("name change did not alter derived seed")
	}
	if DeriveSeed(42, "permutation", 1) == base {
		t.Error("iteration change did not alter derived seed")
	}
}
