package bgp_test

import (
	"testing"

	"github.com/Emeline-1/asrel-sim/internal/bgp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBetter_RelDominates pins down §8 property 10's counterpart: rel
// differences always decide, regardless of path length or next hop.
func TestBetter_RelDominates(t *testing.T) {
	peer := bgp.Announcement{Rel: bgp.PEER, ASPath: []bgp.ASN{1, 2, 3, 4}, NextHop: 9}
	prov := bgp.Announcement{Rel: bgp.PROV, ASPath: []bgp.ASN{1, 2}, NextHop: 1}

	assert.True(t, peer.Better(prov), "PEER must outrank PROV even with a longer path")
	assert.False(t, prov.Better(peer))
}

// TestBetter_ShorterPathWins pins §8 property 10 and the open question in
// §9: shorter path wins on equal rel, independent of arrival order.
func TestBetter_ShorterPathWins(t *testing.T) {
	short := bgp.Announcement{Rel: bgp.PROV, ASPath: []bgp.ASN{1, 2, 3}, NextHop: 7}
	long := bgp.Announcement{Rel: bgp.PROV, ASPath: []bgp.ASN{1, 2, 3, 4}, NextHop: 5}

	assert.True(t, short.Better(long))
	assert.False(t, long.Better(short))
}

// TestBetter_NextHopTieBreak pins §8 scenario S6: equal rel and path length,
// smaller next hop wins.
func TestBetter_NextHopTieBreak(t *testing.T) {
	a := bgp.Announcement{Rel: bgp.PROV, ASPath: []bgp.ASN{1, 2, 3}, NextHop: 7}
	b := bgp.Announcement{Rel: bgp.PROV, ASPath: []bgp.ASN{1, 2, 3}, NextHop: 5}

	assert.True(t, b.Better(a))
	assert.False(t, a.Better(b))
}

// TestBetter_StrictTotalOrder checks irreflexivity and antisymmetry (§8
// property 3) across a handful of distinct tuples.
func TestBetter_StrictTotalOrder(t *testing.T) {
	candidates := []bgp.Announcement{
		{Rel: bgp.ORIGIN, ASPath: []bgp.ASN{1}, NextHop: 1},
		{Rel: bgp.CUST, ASPath: []bgp.ASN{1, 2}, NextHop: 2},
		{Rel: bgp.PEER, ASPath: []bgp.ASN{1, 2}, NextHop: 2},
		{Rel: bgp.PROV, ASPath: []bgp.ASN{1, 2, 3}, NextHop: 9},
		{Rel: bgp.PROV, ASPath: []bgp.ASN{1, 2, 3}, NextHop: 4},
	}
	for _, c := range candidates {
		assert.False(t, c.Better(c), "Better must be irreflexive")
	}
	for i := range candidates {
		for j := range candidates {
			if i == j {
				continue
			}
			if candidates[i].Better(candidates[j]) {
				assert.False(t, candidates[j].Better(candidates[i]), "Better must be antisymmetric")
			}
		}
	}
}

func TestClone_DoesNotAliasPath(t *testing.T) {
	original := bgp.Announcement{ASPath: []bgp.ASN{1, 2, 3}}
	clone := original.Clone()
	clone.ASPath[0] = 99

	require.Equal(t, bgp.ASN(1), original.ASPath[0], "mutating the clone's path must not affect the original")
}
