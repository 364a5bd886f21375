// Copyright (c) 2024, the packagemerge authors.
// SPDX-License-Identifier: BSD-3-Clause

package packagemerge

// lazyNode has the same shape as a natural stage element but lives in a
// bounded pool; its ref flag belongs to the pool and is never touched by
// the setters.
type lazyNode struct {
	alphabet uint32
	weight   uint64
	left     *lazyNode
	right    *lazyNode
	ref      bool
}

func (n *lazyNode) isPackage() bool {
	return n.left != nil && n.right != nil
}

func (n *lazyNode) setSymbol(sym symbol) {
	n.alphabet = sym.alphabet
	n.weight = uint64(sym.weight)
	n.left = nil
	n.right = nil
}

func (n *lazyNode) setPackage(left, right *lazyNode) {
	n.alphabet = 0
	n.weight = left.weight + right.weight
	n.left = left
	n.right = right
}

// lazyLookAhead holds the next two elements of one stage that have been
// computed but not yet consumed; their combined weight is the weight of the
// next package the stage below could form. nextSymbol indexes the first
// singleton this stage has not used yet.
type lazyLookAhead struct {
	elements   [2]*lazyNode
	nextSymbol int
}

func (la *lazyLookAhead) pairWeight() uint64 {
	first, second := la.elements[0], la.elements[1]
	if first == nil || second == nil {
		panic("packagemerge: incomplete look-ahead pair")
	}
	return first.weight + second.weight
}

// LazySolver runs Package-Merge demand-driven: stages exist only as
// look-ahead pairs, and an element is materialised when the stage below
// asks for it. Allocation peaks at n*limit pooled nodes but only O(limit)
// are live at any instant, since every consumed element tree is released
// right after it has been credited.
type LazySolver struct {
	symbols symbolList
	pool    lazyPool
	look    []lazyLookAhead
}

// NewLazySolver creates a new LazySolver instance.
func NewLazySolver() *LazySolver {
	return &LazySolver{}
}

// Solve implements Solver.
func (s *LazySolver) Solve(limit int, histogram []uint32, codeLens []uint32) int {
	symbols, n, done := prepare(s.symbols, limit, histogram, codeLens)
	s.symbols = symbols
	if done {
		return n
	}

	s.pool.reset(n * limit)

	// The top stage is never materialised as a look-ahead; the main loop
	// consumes it directly. Every other stage starts out looking at the two
	// lightest singletons.
	if cap(s.look) < limit-1 {
		s.look = make([]lazyLookAhead, limit-1)
	} else {
		s.look = s.look[:limit-1]
	}
	for i := range s.look {
		first := s.pool.mustBorrow()
		first.setSymbol(s.symbols[0])
		second := s.pool.mustBorrow()
		second.setSymbol(s.symbols[1])
		s.look[i] = lazyLookAhead{
			elements:   [2]*lazyNode{first, second},
			nextSymbol: 2,
		}
	}

	// The first two top-stage elements are always the two lightest
	// singletons; credit them up front.
	codeLens[s.symbols[0].alphabet]++
	codeLens[s.symbols[1].alphabet]++

	// Whatever the limit, the answer is the leftmost 2n-2 elements of the
	// top stage; two are already accounted for.
	top := len(s.look) - 1
	nextSymbol := 2
	total := 2*n - 2
	for i := 2; i < total; i++ {
		node := s.chooseNext(nextSymbol, &s.look[top])
		creditLazy(node, codeLens)
		if i+1 >= total {
			break
		}
		wasPackage := node.isPackage()
		s.releaseTree(node)
		if wasPackage {
			s.refill(top)
		} else {
			nextSymbol++
		}
	}
	return n
}

// chooseNext materialises the next element of the stage below look: the
// next unused singleton or the package formed from look's pair, whichever
// weighs less. A tie goes to the package; the solvers only agree on
// equal-weight inputs because all of them resolve ties this way.
func (s *LazySolver) chooseNext(nextSymbol int, look *lazyLookAhead) *lazyNode {
	node := s.pool.mustBorrow()

	// The singletons are exhausted, so everything left is a package.
	if nextSymbol >= len(s.symbols) {
		node.setPackage(look.elements[0], look.elements[1])
		return node
	}

	if uint64(s.symbols[nextSymbol].weight) < look.pairWeight() {
		node.setSymbol(s.symbols[nextSymbol])
	} else {
		node.setPackage(look.elements[0], look.elements[1])
	}
	return node
}

// refill repopulates both look-ahead slots of stage after its pair was
// consumed. Taking a package consumes the pair of the stage above, which
// then refills recursively; taking a singleton just advances the stage's
// symbol cursor. Stage 0 has no stage above and stops quietly when the
// singletons run out.
func (s *LazySolver) refill(stage int) {
	look := &s.look[stage]
	if stage == 0 {
		for i := 0; i < 2; i++ {
			next := look.nextSymbol
			if next >= len(s.symbols) {
				return
			}
			node := s.pool.mustBorrow()
			node.setSymbol(s.symbols[next])
			look.elements[i] = node
			look.nextSymbol++
		}
		return
	}
	for i := 0; i < 2; i++ {
		node := s.chooseNext(look.nextSymbol, &s.look[stage-1])
		look.elements[i] = node
		if node.isPackage() {
			s.refill(stage - 1)
		} else {
			look.nextSymbol++
		}
	}
}

// releaseTree returns a consumed element and its whole package tree to the
// pool. Contents stay intact until the slot is reissued, which the pool's
// round-robin cursor delays for a full arena cycle.
func (s *LazySolver) releaseTree(node *lazyNode) {
	if node == nil {
		return
	}
	s.releaseTree(node.left)
	s.releaseTree(node.right)
	s.pool.release(node)
}

// creditLazy walks an element tree and adds one bit to every singleton in
// it, exactly like the natural solver's stage walk.
func creditLazy(node *lazyNode, codeLens []uint32) {
	if node == nil {
		panic("packagemerge: nil node in tree walk")
	}
	if node.isPackage() {
		creditLazy(node.left, codeLens)
		creditLazy(node.right, codeLens)
		return
	}
	codeLens[node.alphabet]++
}
