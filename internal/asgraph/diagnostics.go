package asgraph

import (
	"fmt"
	"io"
	"sort"
)

// FprintRankTree renders an ASCII box-drawing tree of the top few ranks of
// the customer-cone DAG: starting from the nodes at the highest rank, each
// node fans out to all of its customers, descending at most maxDepth levels
// below the top. This is a diagnostic-only view
// (wired to the CLI's -debug-ranks flag) and never influences propagation.
//
// Adapted from the teacher's tree/tree.go, which renders AS-path trees for
// the (out-of-scope, see DESIGN.md) valley-free probing heuristic. The
// box-drawing characters and recursive fan-out shape are kept; the tree is
// now built directly from Graph ranks instead of from announcement paths.
func FprintRankTree(w io.Writer, g *Graph, ranks [][]uint32, maxDepth int) {
	if len(ranks) == 0 {
		fmt.Fprintln(w, "(no ranked nodes)")
		return
	}
	top := len(ranks) - 1
	printRankLevel(w, g, ranks, uint32FromIndex(ranks, top), top, maxDepth, "")
}

// uint32FromIndex returns a copy of the node indices at the given rank, so
// that printRankLevel's sort by ASN does not reorder the ranks slice.
func uint32FromIndex(ranks [][]uint32, rank int) []uint32 {
	if rank < 0 || rank >= len(ranks) {
		return nil
	}
	out := make([]uint32, len(ranks[rank]))
	copy(out, ranks[rank])
	return out
}

func printRankLevel(w io.Writer, g *Graph, ranks [][]uint32, nodeIdxs []uint32, rank, maxDepth int, padding string) {
	if rank < 0 || maxDepth < 0 {
		return
	}
	sort.Slice(nodeIdxs, func(i, j int) bool { return g.Nodes[nodeIdxs[i]].ASN < g.Nodes[nodeIdxs[j]].ASN })

	for i, idx := range nodeIdxs {
		node := g.Nodes[idx]
		branch := "├─ "
		childPad := padding + "│  "
		if i == len(nodeIdxs)-1 {
			branch = "└─ "
			childPad = padding + "   "
		}
		fmt.Fprintf(w, "%s%sAS%d (rank %d, %d customers)\n", padding, branch, node.ASN, node.Rank, len(node.Customers))
		if maxDepth > 0 && len(node.Customers) > 0 {
			printRankLevel(w, g, ranks, node.Customers, rank-1, maxDepth-1, childPad)
		}
	}
}
