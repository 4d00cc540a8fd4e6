// SPDX-License-Identifier: MIT
// Package: dgm/builder
//
// potential_fn.go - node and arc potential generators.
//
// Generators receive the (possibly nil) RNG of the resolved config. Random
// generators fall back to all-ones potentials when no RNG is configured so
// that deterministic builds stay deterministic.

package builder

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/dgm/matrix"
)

// NodePotentialFn returns the potential of a new node over k states.
// A nil result means all ones.
type NodePotentialFn func(rng *rand.Rand, k int) []float64

// EdgePotentialFn returns the k×k potential of a new arc.
// A nil result means all ones.
type EdgePotentialFn func(rng *rand.Rand, k int) *matrix.Dense

// OnesNode gives every node the all-ones potential.
func OnesNode(_ *rand.Rand, _ int) []float64 { return nil }

// OnesEdge gives every arc the all-ones potential.
func OnesEdge(_ *rand.Rand, _ int) *matrix.Dense { return nil }

// UniformNodeFn draws every node entry from U[lo, hi].
// Panics unless 0 ≤ lo ≤ hi.
func UniformNodeFn(lo, hi float64) NodePotentialFn {
	if lo < 0 || hi < lo {
		panic(fmt.Sprintf("UniformNodeFn: require 0 ≤ lo ≤ hi, got lo=%g, hi=%g", lo, hi))
	}
	return func(rng *rand.Rand, k int) []float64 {
		if rng == nil {
			return nil
		}
		pot := make([]float64, k)
		for s := range pot {
			pot[s] = lo + rng.Float64()*(hi-lo)
		}
		return pot
	}
}

// UniformEdgeFn draws every arc entry from U[lo, hi].
// Panics unless 0 ≤ lo ≤ hi.
func UniformEdgeFn(lo, hi float64) EdgePotentialFn {
	if lo < 0 || hi < lo {
		panic(fmt.Sprintf("UniformEdgeFn: require 0 ≤ lo ≤ hi, got lo=%g, hi=%g", lo, hi))
	}
	return func(rng *rand.Rand, k int) *matrix.Dense {
		if rng == nil {
			return nil
		}
		vals := make([]float64, k*k)
		for i := range vals {
			vals[i] = lo + rng.Float64()*(hi-lo)
		}
		m, _ := matrix.NewDenseFrom(k, k, vals)
		return m
	}
}

// PottsEdgeFn gives every arc same on the diagonal and diff elsewhere.
// same > diff makes neighbours prefer equal states. Panics on negative values.
func PottsEdgeFn(same, diff float64) EdgePotentialFn {
	if same < 0 || diff < 0 {
		panic(fmt.Sprintf("PottsEdgeFn: require non-negative values, got same=%g, diff=%g", same, diff))
	}
	return func(_ *rand.Rand, k int) *matrix.Dense {
		return PottsMatrix(k, same, diff)
	}
}

// PottsMatrix returns the k×k matrix with same on the diagonal and diff elsewhere.
func PottsMatrix(k int, same, diff float64) *matrix.Dense {
	m, err := matrix.NewFilled(k, k, diff)
	if err != nil {
		return nil
	}
	for i := 0; i < k; i++ {
		_ = m.Set(i, i, same)
	}

	return m
}
