package asgraph_test

import (
	"testing"

	"github.com/Emeline-1/asrel-sim/internal/asgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildChain builds 1 -> 2 -> 3 as providers (1 provides 2, 2 provides 3),
// matching §8 scenario S1.
func buildChain(t *testing.T) *asgraph.Graph {
	t.Helper()
	g := asgraph.New()
	g.AddEdge(1, 2, asgraph.P2C)
	g.AddEdge(2, 3, asgraph.P2C)
	return g
}

func TestFlattenRanks_ProviderChain(t *testing.T) {
	g := buildChain(t)
	ranks := g.FlattenRanks()

	require.Len(t, ranks, 3)
	idx3, _ := g.NodeByASN(3)
	idx2, _ := g.NodeByASN(2)
	idx1, _ := g.NodeByASN(1)

	assert.Equal(t, 0, g.Nodes[idx3].Rank)
	assert.Equal(t, 1, g.Nodes[idx2].Rank)
	assert.Equal(t, 2, g.Nodes[idx1].Rank)
	assert.ElementsMatch(t, []uint32{idx3}, ranks[0])
	assert.ElementsMatch(t, []uint32{idx2}, ranks[1])
	assert.ElementsMatch(t, []uint32{idx1}, ranks[2])
}

func TestFlattenRanks_RankZeroHasNoCustomers(t *testing.T) {
	g := buildChain(t)
	ranks := g.FlattenRanks()
	for _, idx := range ranks[0] {
		assert.Empty(t, g.Nodes[idx].Customers)
	}
}

func TestDetectCycle_NoCycleOnDAG(t *testing.T) {
	g := buildChain(t)
	assert.False(t, g.DetectCycle())
}

func TestDetectCycle_ProviderLoop(t *testing.T) {
	g := asgraph.New()
	g.AddEdge(1, 2, asgraph.C2P) // 2 provides 1
	g.AddEdge(2, 3, asgraph.C2P) // 3 provides 2
	g.AddEdge(3, 1, asgraph.C2P) // 1 provides 3 -> cycle

	assert.True(t, g.DetectCycle())
}

func TestDetectCycle_IgnoresPeerEdges(t *testing.T) {
	g := asgraph.New()
	g.AddEdge(1, 2, asgraph.P2P)
	g.AddEdge(2, 1, asgraph.P2P)

	assert.False(t, g.DetectCycle(), "peer edges must never trigger cycle detection")
}

func TestAddEdge_PeerIsSymmetric(t *testing.T) {
	g := asgraph.New()
	g.AddEdge(1, 2, asgraph.P2P)

	idx1, _ := g.NodeByASN(1)
	idx2, _ := g.NodeByASN(2)
	assert.Contains(t, g.Nodes[idx1].Peers, idx2)
	assert.Contains(t, g.Nodes[idx2].Peers, idx1)
}

func TestAddEdge_C2PIsAsymmetric(t *testing.T) {
	g := asgraph.New()
	g.AddEdge(1, 2, asgraph.C2P) // 1 is a customer of 2; 2 is a provider of 1

	idx1, _ := g.NodeByASN(1)
	idx2, _ := g.NodeByASN(2)
	assert.Contains(t, g.Nodes[idx1].Providers, idx2)
	assert.Contains(t, g.Nodes[idx2].Customers, idx1)
}

func TestFlattenRanks_PeerOnlyNodeIsRankZero(t *testing.T) {
	g := buildChain(t)
	// AddEdge interns both endpoints; a peer-only edge creates a node with
	// no customers, which must still land in rank 0.
	g.AddEdge(99, 3, asgraph.P2P)

	ranks := g.FlattenRanks()
	idx99, _ := g.NodeByASN(99)
	assert.Equal(t, 0, g.Nodes[idx99].Rank)
	assert.Contains(t, ranks[0], idx99)
}
