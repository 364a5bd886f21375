// Copyright (c) 2024, the packagemerge authors.
// SPDX-License-Identifier: BSD-3-Clause

package packagemerge

import "sort"

// naturalNode is one element of a fully materialised stage: either a copy
// of a singleton symbol or a package pairing two nodes of the stage above.
// leftRank records the index of left within its stage; it only exists to
// make the stage order total, which keeps the node arrangement, and with it
// the exact length table, identical across runs and solvers.
type naturalNode struct {
	alphabet uint32
	leftRank int32
	weight   uint64
	left     *naturalNode
	right    *naturalNode
}

func (n *naturalNode) isPackage() bool {
	return n.left != nil && n.right != nil
}

// naturalStage sorts ascending by weight, then alphabet (packages carry
// alphabet 0), then packages before singletons, then by the rank of the
// left child. The tail of the key is not needed for optimality, only for
// agreement with the demand-driven solvers on equal-weight arrangements.
type naturalStage []naturalNode

func (s naturalStage) Len() int { return len(s) }

func (s naturalStage) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s naturalStage) Less(i, j int) bool {
	a, b := &s[i], &s[j]
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	if a.alphabet != b.alphabet {
		return a.alphabet < b.alphabet
	}
	if a.isPackage() {
		if b.isPackage() {
			return a.leftRank < b.leftRank
		}
		return true
	}
	return false
}

// NaturalSolver is the reference Package-Merge implementation. It builds
// all limit stages in full and reads the answer off the last one, spending
// O(n*limit) nodes and a sort per stage.
type NaturalSolver struct {
	symbols symbolList
	stages  []naturalStage
}

// NewNaturalSolver creates a new NaturalSolver instance.
func NewNaturalSolver() *NaturalSolver {
	return &NaturalSolver{}
}

// Solve implements Solver.
func (s *NaturalSolver) Solve(limit int, histogram []uint32, codeLens []uint32) int {
	symbols, n, done := prepare(s.symbols, limit, histogram, codeLens)
	s.symbols = symbols
	if done {
		return n
	}

	if cap(s.stages) < limit {
		s.stages = make([]naturalStage, limit)
	} else {
		s.stages = s.stages[:limit]
	}

	stage := s.stages[0][:0]
	for _, sym := range s.symbols {
		stage = append(stage, naturalNode{alphabet: sym.alphabet, weight: uint64(sym.weight)})
	}
	sort.Sort(stage)
	s.stages[0] = stage

	// Stage k sees every singleton plus one package per consecutive pair of
	// stage k-1; a trailing unpaired element contributes nothing.
	for k := 1; k < limit; k++ {
		prev := s.stages[k-1]
		next := s.stages[k][:0]
		for _, sym := range s.symbols {
			next = append(next, naturalNode{alphabet: sym.alphabet, weight: uint64(sym.weight)})
		}
		for i := 1; i < len(prev); i += 2 {
			left, right := &prev[i-1], &prev[i]
			next = append(next, naturalNode{
				leftRank: int32(i - 1),
				weight:   left.weight + right.weight,
				left:     left,
				right:    right,
			})
		}
		sort.Sort(next)
		s.stages[k] = next
	}

	// The leftmost 2n-2 elements of the last stage are the optimal
	// selection; each occurrence of a symbol inside them costs one bit.
	last := s.stages[limit-1]
	for i := 0; i < 2*n-2; i++ {
		creditTree(&last[i], codeLens)
	}
	return n
}

// creditTree adds one bit to every symbol the element covers, recursing
// through package pairs down to the singleton leaves.
func creditTree(node *naturalNode, codeLens []uint32) {
	if node == nil {
		panic("packagemerge: nil node in stage walk")
	}
	if node.isPackage() {
		creditTree(node.left, codeLens)
		creditTree(node.right, codeLens)
		return
	}
	codeLens[node.alphabet]++
}
