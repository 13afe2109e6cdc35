package emit_test

import (
	"strings"
	"testing"

	"github.com/Emeline-1/asrel-sim/internal/asgraph"
	"github.com/Emeline-1/asrel-sim/internal/bgp"
	"github.com/Emeline-1/asrel-sim/internal/emit"
	"github.com/Emeline-1/asrel-sim/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_HeaderAndRows(t *testing.T) {
	g := asgraph.New()
	g.AddEdge(1, 2, asgraph.P2C)
	states := []*bgp.State{bgp.NewState(), bgp.NewState()}

	dict := scenario.NewPrefixDict()
	prefixID := dict.Intern("10.0.0.0/8")

	idx1, _ := g.NodeByASN(1)
	states[idx1].RIB[prefixID] = bgp.Announcement{
		PrefixID: prefixID,
		ASPath:   []bgp.ASN{1, 2},
		NextHop:  2,
		Rel:      bgp.PROV,
	}

	var buf strings.Builder
	require.NoError(t, emit.Write(&buf, g, states, dict))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "asn,prefix,as_path", lines[0])
	assert.Equal(t, "1,10.0.0.0/8,1-2", lines[1])
}

func TestWrite_SkipsUnknownPrefixID(t *testing.T) {
	g := asgraph.New()
	g.AddEdge(1, 2, asgraph.P2C)
	states := []*bgp.State{bgp.NewState(), bgp.NewState()}
	dict := scenario.NewPrefixDict()

	idx1, _ := g.NodeByASN(1)
	states[idx1].RIB[42] = bgp.Announcement{PrefixID: 42, ASPath: []bgp.ASN{1}}

	var buf strings.Builder
	require.NoError(t, emit.Write(&buf, g, states, dict))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1, "only the header: the unknown prefix ID has no dictionary entry")
}

func TestWrite_EmptyRIBsProduceOnlyHeader(t *testing.T) {
	g := asgraph.New()
	g.AddEdge(1, 2, asgraph.P2C)
	states := []*bgp.State{bgp.NewState(), bgp.NewState()}
	dict := scenario.NewPrefixDict()

	var buf strings.Builder
	require.NoError(t, emit.Write(&buf, g, states, dict))

	assert.Equal(t, "asn,prefix,as_path\n", buf.String())
}
