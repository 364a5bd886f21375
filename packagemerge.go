// Copyright (c) 2024, the packagemerge authors.
// SPDX-License-Identifier: BSD-3-Clause

// Package packagemerge generates optimal length-limited prefix codes with
// the Package-Merge algorithm of Larmore and Hirschberg. Given a histogram
// of symbol frequencies and a bit limit L, it returns a code length per
// symbol such that the lengths form a decodable canonical prefix code, no
// length exceeds L, and the weighted total length is minimal. DEFLATE and
// similar coders use this to bound their symbol codes (15 bits for DEFLATE).
//
// Three solvers share the same contract and produce identical output but
// trade time for memory differently:
//
//   - NaturalPM materialises every stage of the algorithm (O(n*L) nodes).
//   - LazyPM builds stages on demand and keeps only two look-ahead elements
//     per stage live at a time (O(n*L) pool, O(L) live).
//   - BoundaryPM additionally compresses package trees into boundary chains
//     and runs in O(L*L) nodes total.
//
// References:
//
//	Larmore, Hirschberg: "A Fast Algorithm for Optimal Length-Limited
//	Huffman Codes", Journal of the ACM 37(3), 1990.
package packagemerge

// Solver generates code lengths from a histogram.
// A solver should be reused across calls to amortise its internal
// allocations; each call still computes from scratch.
type Solver interface {
	// Solve writes the bit length of every used symbol of histogram into
	// codeLens and returns the number of used symbols. Symbols with a zero
	// count get length 0. codeLens must hold len(histogram) entries.
	// Solve returns -1 when the used symbols cannot be coded within limit
	// bits, leaving codeLens all zero.
	Solve(limit int, histogram []uint32, codeLens []uint32) int
}

// IsImpossibleCoding reports whether numSymbols distinct symbols cannot all
// receive prefix codes of at most limit bits. A valid code exists exactly
// when numSymbols <= 2^limit, so numSymbols == 2^limit (a full binary tree
// of depth limit) is still codable.
func IsImpossibleCoding(numSymbols, limit int) bool {
	return uint64(numSymbols) > uint64(1)<<uint(limit)
}

// NaturalPM computes the optimal code lengths for weights under limit with
// the stage-materialising reference solver. weights[i] is the frequency of
// symbol i, zero meaning absent. limit must be in [1, 63].
//
// The result holds one length per input entry, zero for absent symbols. A
// lone used symbol gets length 1. When more than 2^limit symbols are in use
// no code exists and the result is nil.
func NaturalPM(weights []uint32, limit int) []uint32 {
	return solve(NewNaturalSolver(), weights, limit)
}

// LazyPM computes the same code lengths as NaturalPM with the demand-driven
// solver, which keeps only O(limit) nodes live at a time.
func LazyPM(weights []uint32, limit int) []uint32 {
	return solve(NewLazySolver(), weights, limit)
}

// BoundaryPM computes the same code lengths as NaturalPM with the
// chain-compressed solver, which allocates limit*(limit-1) nodes in total.
func BoundaryPM(weights []uint32, limit int) []uint32 {
	return solve(NewBoundarySolver(), weights, limit)
}

func solve(s Solver, weights []uint32, limit int) []uint32 {
	codeLens := make([]uint32, len(weights))
	if s.Solve(limit, weights, codeLens) < 0 {
		return nil
	}
	return codeLens
}

// prepare runs the shared preflight of all three solvers: it extracts the
// used symbols of histogram into list (reusing its storage) and zeroes
// codeLens. done reports that codeLens is already complete; n is then the
// value Solve must return. Alphabets of fewer than two symbols never reach
// the solver cores: no symbol yields the all-zero table and a lone symbol
// gets length 1.
func prepare(list symbolList, limit int, histogram, codeLens []uint32) (_ symbolList, n int, done bool) {
	list = extractSymbols(list[:0], histogram)
	for i := range codeLens {
		codeLens[i] = 0
	}
	n = len(list)
	if IsImpossibleCoding(n, limit) {
		return list, -1, true
	}
	if n <= 1 {
		if n == 1 {
			codeLens[list[0].alphabet] = 1
		}
		return list, n, true
	}
	return list, n, false
}
