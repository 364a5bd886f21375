// Copyright (c) 2024, the packagemerge authors.
// SPDX-License-Identifier: BSD-3-Clause

package packagemerge

// symbol is one used entry of the input histogram. The field order matters:
// on little-endian targets the struct reinterprets as a uint64 whose value
// is weight<<32 | alphabet, so sorting the packed keys ascending yields
// exactly the canonical (weight, alphabet) order every solver requires.
type symbol struct {
	alphabet uint32
	weight   uint32
}

type symbolList []symbol

// extractSymbols appends every non-zero entry of histogram to list and
// returns it in canonical order: ascending weight, ties by ascending
// symbol. All solvers must see the identical order to produce identical
// length tables.
func extractSymbols(list symbolList, histogram []uint32) symbolList {
	for i, v := range histogram {
		if v != 0 {
			list = append(list, symbol{
				alphabet: uint32(i),
				weight:   v,
			})
		}
	}
	sortSymbols(list)
	return list
}
