// Package asgraph builds and partitions the AS-relationship graph: a
// contiguous node store plus an ASN index, three-colour cycle detection over
// provider edges, and the customer-cone rank BFS that drives propagation
// order. Grounded on original_source/src/as_graph.{h,cpp} and restructured
// the way the teacher's caida_file_readers.go lays out its readers: package
// level exported functions operating on a small set of value types.
package asgraph

import (
	"fmt"

	"github.com/Emeline-1/asrel-sim/internal/bgp"
)

// RelType is the directional relationship carried by a single input line.
// The numbering matches CAIDA's own encoding (P2C=0, C2P=-1, P2P=1), kept
// unchanged from original_source/src/as_graph.h.
type RelType int8

const (
	P2C RelType = 0
	C2P RelType = -1
	P2P RelType = 1
)

// Node is a single AS in the graph. Provider/customer/peer lists hold
// indices into Graph.Nodes, not pointers — node indices are stable for the
// life of the graph (§3 invariant), and every lookup goes through those
// indices rather than a stored pointer (unlike the C++ original's raw
// BGPState* back-pointer).
type Node struct {
	ASN       bgp.ASN
	Providers []uint32
	Customers []uint32
	Peers     []uint32
	Rank      int // -1 until FlattenRanks assigns it
}

// Graph is a contiguous AS store plus an ASN→index lookup. It is built once
// at load time and never mutated structurally afterward (§3 lifecycle).
type Graph struct {
	Nodes     []Node
	asnToNode map[bgp.ASN]uint32
}

// New returns an empty graph ready for incremental loading.
func New() *Graph {
	return &Graph{asnToNode: make(map[bgp.ASN]uint32)}
}

// NodeCount and EdgeCount are diagnostic accessors mirroring the teacher's
// benchmark_graph() logging in original_source/src/main.cpp.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

func (g *Graph) EdgeCount() int {
	n := 0
	for _, node := range g.Nodes {
		n += len(node.Providers) + len(node.Peers)
	}
	return n
}

// indexFor returns the node index for asn, allocating a new node if this is
// the first time asn is seen. Mirrors as_graph.cpp's get_index lambda.
func (g *Graph) indexFor(asn bgp.ASN) uint32 {
	if idx, ok := g.asnToNode[asn]; ok {
		return idx
	}
	idx := uint32(len(g.Nodes))
	g.Nodes = append(g.Nodes, Node{ASN: asn, Rank: -1})
	g.asnToNode[asn] = idx
	return idx
}

// NodeByASN returns the node index for asn and whether it is present.
func (g *Graph) NodeByASN(asn bgp.ASN) (uint32, bool) {
	idx, ok := g.asnToNode[asn]
	return idx, ok
}

// AddEdge records one CAIDA-format relationship line between asn1 and asn2.
// Duplicate edges from the input are retained as-is (§4.1: harmless to
// semantics, wasteful to dedupe, and dedup is explicitly optional).
func (g *Graph) AddEdge(asn1, asn2 bgp.ASN, rel RelType) {
	idx1 := g.indexFor(asn1)
	idx2 := g.indexFor(asn2)
	switch rel {
	case P2C:
		g.Nodes[idx1].Customers = append(g.Nodes[idx1].Customers, idx2)
		g.Nodes[idx2].Providers = append(g.Nodes[idx2].Providers, idx1)
	case C2P:
		g.Nodes[idx2].Customers = append(g.Nodes[idx2].Customers, idx1)
		g.Nodes[idx1].Providers = append(g.Nodes[idx1].Providers, idx2)
	case P2P:
		g.Nodes[idx1].Peers = append(g.Nodes[idx1].Peers, idx2)
		g.Nodes[idx2].Peers = append(g.Nodes[idx2].Peers, idx1)
	}
}

// color values for DetectCycle's three-colour DFS.
const (
	white = 0
	gray  = 1
	black = 2
)

// DetectCycle runs three-colour DFS over the provider edges only (peers are
// ignored, §4.1). It returns true as soon as a grey→grey edge is found,
// i.e. a back-edge to a node currently on the recursion stack.
func (g *Graph) DetectCycle() bool {
	visit := make([]uint8, len(g.Nodes))
	for idx := range g.Nodes {
		if visit[idx] == white {
			if g.hasCycle(uint32(idx), visit) {
				return true
			}
		}
	}
	return false
}

func (g *Graph) hasCycle(idx uint32, visit []uint8) bool {
	visit[idx] = gray
	for _, provIdx := range g.Nodes[idx].Providers {
		if visit[provIdx] == gray {
			return true
		}
		if visit[provIdx] == white && g.hasCycle(provIdx, visit) {
			return true
		}
	}
	visit[idx] = black
	return false
}

// FlattenRanks partitions nodes into customer-cone depth layers: rank 0 is
// every node with no customers; rank r+1 providers are discovered by BFS
// over the reverse-customer relation from rank r. Nodes never reached by
// this traversal keep Rank == -1 and are returned in no rank bucket (§3
// invariant, §9 open question — UP/DOWN skip them, PEER does not).
func (g *Graph) FlattenRanks() [][]uint32 {
	for i := range g.Nodes {
		g.Nodes[i].Rank = -1
	}

	queue := make([]uint32, 0, len(g.Nodes))
	for idx := range g.Nodes {
		if len(g.Nodes[idx].Customers) == 0 {
			g.Nodes[idx].Rank = 0
			queue = append(queue, uint32(idx))
		}
	}

	curRank := 0
	maxRank := -1
	if len(queue) > 0 {
		maxRank = 0
	}
	for len(queue) > 0 {
		next := make([]uint32, 0)
		for _, u := range queue {
			for _, provIdx := range g.Nodes[u].Providers {
				if g.Nodes[provIdx].Rank == -1 {
					g.Nodes[provIdx].Rank = curRank + 1
					next = append(next, provIdx)
				}
			}
		}
		if len(next) > 0 {
			maxRank = curRank + 1
		}
		queue = next
		curRank++
	}

	if maxRank < 0 {
		return nil
	}
	ranks := make([][]uint32, maxRank+1)
	for idx := range g.Nodes {
		r := g.Nodes[idx].Rank
		if r >= 0 {
			ranks[r] = append(ranks[r], uint32(idx))
		}
	}
	return ranks
}

// String implements a compact diagnostic summary, in the same spirit as the
// teacher's SafeSet.String().
func (g *Graph) String() string {
	return fmt.Sprintf("asgraph.Graph{nodes=%d, edges=%d}", g.NodeCount(), g.EdgeCount())
}
